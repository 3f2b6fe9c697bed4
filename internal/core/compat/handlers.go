package compat

import (
	"fmt"
	"time"
)

// upgradeUntaggedLegacy brings a pre-tag document up to 0.1.1 by injecting
// the fields that release introduced.
func upgradeUntaggedLegacy(doc map[string]any) (map[string]any, error) {
	doc[versionFieldName] = "0.1.1"
	if _, ok := doc["percentage_complete"]; !ok {
		doc["percentage_complete"] = float64(0)
	}
	if _, ok := doc["variables"]; !ok {
		doc["variables"] = []any{}
	}
	return doc, nil
}

// upgradeV011 handles the 0.1.1 -> 1.0.0 break: the metadata bookkeeping
// fields gained a metadata_ prefix and empty strings stopped being valid
// field values.
func upgradeV011(doc map[string]any) (map[string]any, error) {
	ds, err := datasetBlock(doc)
	if err != nil {
		return nil, err
	}

	renames := [][2]string{
		{"created_date", "metadata_created_date"},
		{"created_by", "metadata_created_by"},
		{"last_updated_date", "metadata_last_updated_date"},
		{"last_updated_by", "metadata_last_updated_by"},
	}
	for _, r := range renames {
		if v, ok := ds[r[0]]; ok {
			ds[r[1]] = v
			delete(ds, r[0])
		}
	}
	for k, v := range ds {
		if s, ok := v.(string); ok && s == "" {
			ds[k] = nil
		}
	}

	doc[versionFieldName] = "1.0.0"
	return doc, nil
}

// upgradeV100 handles the 1.0.0 -> 2.0.0 break: timestamps were normalized
// to UTC, the personal-data flag was renamed, and the OBSOLETE dataset
// status was renamed to DEPRECATED.
func upgradeV100(doc map[string]any) (map[string]any, error) {
	ds, err := datasetBlock(doc)
	if err != nil {
		return nil, err
	}

	for _, field := range []string{"metadata_created_date", "metadata_last_updated_date"} {
		s, ok := ds[field].(string)
		if !ok || s == "" {
			continue
		}
		normalized, err := normalizeTimestamp(s)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", field, err)
		}
		ds[field] = normalized
	}

	if status, ok := ds["dataset_status"].(string); ok && status == "OBSOLETE" {
		ds["dataset_status"] = "DEPRECATED"
	}

	for _, v := range variableBlocks(doc) {
		if flag, ok := v["direct_person_identifying"]; ok {
			v["is_personal_data"] = flag
			delete(v, "direct_person_identifying")
		}
	}

	doc[versionFieldName] = "2.0.0"
	return doc, nil
}

// upgradeV200 handles the 2.0.0 -> 2.1.0 break: the free-text dataset
// data_source field was removed (value discarded, not reinterpreted) and
// variables gained measurement_unit and coverage dates with null defaults.
func upgradeV200(doc map[string]any) (map[string]any, error) {
	ds, err := datasetBlock(doc)
	if err != nil {
		return nil, err
	}

	delete(ds, "data_source")
	if _, ok := ds["contains_data_from"]; !ok {
		ds["contains_data_from"] = nil
	}
	if _, ok := ds["contains_data_until"]; !ok {
		ds["contains_data_until"] = nil
	}

	for _, v := range variableBlocks(doc) {
		if _, ok := v["measurement_unit"]; !ok {
			v["measurement_unit"] = nil
		}
	}

	doc[versionFieldName] = "2.1.0"
	return doc, nil
}

func upgradeCurrent(doc map[string]any) (map[string]any, error) {
	return doc, nil
}

func datasetBlock(doc map[string]any) (map[string]any, error) {
	ds, ok := doc["dataset"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document has no dataset block")
	}
	return ds, nil
}

func variableBlocks(doc map[string]any) []map[string]any {
	raw, ok := doc["variables"].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if v, ok := entry.(map[string]any); ok {
			out = append(out, v)
		}
	}
	return out
}

// normalizeTimestamp converts historical timestamp spellings to UTC RFC3339
// with second precision.
func normalizeTimestamp(s string) (string, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Truncate(time.Second).Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("unrecognized timestamp %q", s)
}
