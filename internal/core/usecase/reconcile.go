package usecase

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// ReconcileVariables merges a freshly extracted column list with previously
// documented variables.
//
// Confirmed renames win first, then exact short-name matches, then new
// variables are created with fresh surrogate ids. Documented variables not
// covered by any of those are dropped and reported on the diff; when they
// carry user documentation the drop is additionally flagged as loss. The
// output order is exactly the extracted order, which makes the operation
// idempotent for an unchanged extraction.
func ReconcileVariables(
	existing []domain.Variable,
	extracted []domain.ExtractedColumn,
	confirmedRenames map[string]string,
) ([]domain.Variable, domain.ReconciliationDiff, error) {
	seen := make(map[string]struct{}, len(extracted))
	for _, col := range extracted {
		if col.ShortName == "" {
			return nil, domain.ReconciliationDiff{}, domain.WrapError(domain.ErrInvalidInput,
				"reconcile variables", fmt.Errorf("extracted column with empty name"))
		}
		if _, dup := seen[col.ShortName]; dup {
			return nil, domain.ReconciliationDiff{}, domain.WrapError(domain.ErrInvalidInput,
				"reconcile variables", fmt.Errorf("duplicate extracted column %q", col.ShortName))
		}
		seen[col.ShortName] = struct{}{}
	}

	byName := make(map[string]int, len(existing))
	for i, v := range existing {
		byName[v.ShortName] = i
	}

	// Invert old->new so lookup happens per extracted name. A confirmed
	// rename only applies when the old name is actually documented.
	oldByNew := make(map[string]string, len(confirmedRenames))
	for oldName, newName := range confirmedRenames {
		if oldName == newName {
			continue
		}
		if _, ok := byName[oldName]; ok {
			oldByNew[newName] = oldName
		}
	}

	diff := domain.ReconciliationDiff{Renamed: map[string]string{}}
	consumed := make(map[string]struct{}, len(existing))
	out := make([]domain.Variable, 0, len(extracted))

	for _, col := range extracted {
		if oldName, ok := oldByNew[col.ShortName]; ok {
			if _, taken := consumed[oldName]; !taken {
				v := existing[byName[oldName]]
				v.ShortName = col.ShortName
				v.DataType = col.DataType
				out = append(out, v)
				consumed[oldName] = struct{}{}
				diff.Renamed[oldName] = col.ShortName
				continue
			}
		}
		if i, ok := byName[col.ShortName]; ok {
			if _, taken := consumed[col.ShortName]; !taken {
				v := existing[i]
				v.DataType = col.DataType
				out = append(out, v)
				consumed[col.ShortName] = struct{}{}
				diff.Unchanged = append(diff.Unchanged, col.ShortName)
				continue
			}
		}
		out = append(out, domain.Variable{
			ID:        uuid.NewString(),
			ShortName: col.ShortName,
			DataType:  col.DataType,
		})
		diff.Added = append(diff.Added, col.ShortName)
	}

	for _, v := range existing {
		if _, ok := consumed[v.ShortName]; ok {
			continue
		}
		diff.Removed = append(diff.Removed, v.ShortName)
		if v.HasDocumentation() {
			diff.LostDocumentation = append(diff.LostDocumentation, v.ShortName)
		}
	}

	return out, diff, nil
}
