// Package compat upgrades metadata documents written by older releases to
// the current schema version.
//
// Every released schema version gets one upgrade handler that transforms a
// document to the next version. Handlers run in order from the detected
// version to the current one, so a document is either fully upgraded or
// rejected; it is never left in between. The untyped key/value tree is the
// only representation that may carry legacy-only fields, the strongly typed
// domain model never sees them.
package compat

import (
	"encoding/json"
	"fmt"

	"github.com/nordstat/datadoc/internal/core/domain"
)

const versionFieldName = "document_version"

// CurrentVersion is the version every upgraded document reports.
const CurrentVersion = domain.DocumentVersion

type handlerFunc func(doc map[string]any) (map[string]any, error)

type supportedVersion struct {
	version string
	upgrade handlerFunc
}

// chain is ordered from oldest to newest. Each handler upgrades a document
// from its version to the next entry's version. Entries for released
// versions are frozen: they describe a historical wire format and must
// never be edited retroactively.
var chain = []supportedVersion{
	{version: "0.0.0", upgrade: upgradeUntaggedLegacy},
	{version: "0.1.1", upgrade: upgradeV011},
	{version: "1.0.0", upgrade: upgradeV100},
	{version: "2.0.0", upgrade: upgradeV200},
	{version: CurrentVersion, upgrade: upgradeCurrent},
}

// versionAliases covers tags that shipped with an incorrect version string.
var versionAliases = map[string]string{
	"1": "0.1.1",
}

// Upgrade parses raw document bytes and applies the upgrade chain until the
// current version is reached. It returns the upgraded document and the
// version the stored bytes carried. The input bytes are never modified.
func Upgrade(raw []byte) (*domain.MetadataDocument, string, error) {
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "parse metadata document", err)
	}

	from, err := DetectVersion(tree)
	if err != nil {
		return nil, "", err
	}

	working := deepCopy(tree).(map[string]any)
	started := false
	for _, v := range chain {
		if v.version == from {
			started = true
		}
		if !started {
			continue
		}
		working, err = v.upgrade(working)
		if err != nil {
			return nil, "", fmt.Errorf("upgrade from version %s: %w", v.version, err)
		}
	}
	if !started {
		return nil, "", domain.WrapError(domain.ErrUnsupportedVersion, "upgrade metadata document",
			fmt.Errorf("version %q has no registered handler", from))
	}

	upgraded, err := json.Marshal(working)
	if err != nil {
		return nil, "", fmt.Errorf("encode upgraded document: %w", err)
	}
	var doc domain.MetadataDocument
	if err := json.Unmarshal(upgraded, &doc); err != nil {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "decode upgraded document", err)
	}
	doc.DocumentVersion = CurrentVersion
	return &doc, from, nil
}

// DetectVersion reads the explicit version tag, resolving known aliases.
// Untagged documents are accepted only when they match the single known
// pre-tag shape; anything else is rejected rather than guessed at.
func DetectVersion(tree map[string]any) (string, error) {
	if tag, ok := tree[versionFieldName]; ok {
		s, ok := tag.(string)
		if !ok {
			return "", domain.WrapError(domain.ErrUnsupportedVersion, "detect document version",
				fmt.Errorf("version tag has type %T", tag))
		}
		if alias, ok := versionAliases[s]; ok {
			s = alias
		}
		for _, v := range chain {
			if v.version == s {
				return s, nil
			}
		}
		return "", domain.WrapError(domain.ErrUnsupportedVersion, "detect document version",
			fmt.Errorf("version %q is not supported", s))
	}

	// Structural signature for the only release that predates version
	// tags: a dataset block with created_date/created_by keys and no
	// percentage_complete.
	if ds, ok := tree["dataset"].(map[string]any); ok {
		_, hasCreatedDate := ds["created_date"]
		_, hasCreatedBy := ds["created_by"]
		_, hasPercentage := tree["percentage_complete"]
		if (hasCreatedDate || hasCreatedBy) && !hasPercentage {
			return "0.0.0", nil
		}
	}
	return "", domain.WrapError(domain.ErrUnsupportedVersion, "detect document version",
		fmt.Errorf("no version tag and no known legacy shape"))
}

// deepCopy clones a JSON tree so handlers own what they mutate.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
