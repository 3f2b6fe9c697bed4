package domain

// ReconciliationDiff reports how reconciliation changed the variable list.
// Removed variables that carried user documentation are echoed in
// LostDocumentation: that loss is deliberate and irreversible, so callers
// must surface it before the next save commits it.
type ReconciliationDiff struct {
	Added     []string
	Removed   []string
	Unchanged []string
	// Renamed maps the previous short name to the current one for renames
	// confirmed by the caller.
	Renamed           map[string]string
	LostDocumentation []string
}

// HasLoss reports whether committing this diff would drop documented
// variables.
func (d ReconciliationDiff) HasLoss() bool {
	return len(d.LostDocumentation) > 0
}

// Empty reports whether reconciliation changed nothing.
func (d ReconciliationDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Renamed) == 0
}
