package compat

import (
	"encoding/json"
	"reflect"
	"testing"
)

func tree(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return out
}

func TestUpgradeV011BeforeAfter(t *testing.T) {
	before := tree(t, `{
		"document_version": "0.1.1",
		"dataset": {
			"short_name": "trade",
			"description": "",
			"created_date": "2021-01-01T00:00:00",
			"last_updated_by": "bo@example.com"
		},
		"variables": []
	}`)
	want := tree(t, `{
		"document_version": "1.0.0",
		"dataset": {
			"short_name": "trade",
			"description": null,
			"metadata_created_date": "2021-01-01T00:00:00",
			"metadata_last_updated_by": "bo@example.com"
		},
		"variables": []
	}`)

	got, err := upgradeV011(before)
	if err != nil {
		t.Fatalf("upgradeV011() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("upgradeV011() = %v, want %v", got, want)
	}
}

func TestUpgradeV100BeforeAfter(t *testing.T) {
	before := tree(t, `{
		"document_version": "1.0.0",
		"dataset": {
			"dataset_status": "OBSOLETE",
			"metadata_created_date": "2021-06-01T14:30:00+02:00"
		},
		"variables": [
			{"short_name": "pnr", "direct_person_identifying": true}
		]
	}`)
	want := tree(t, `{
		"document_version": "2.0.0",
		"dataset": {
			"dataset_status": "DEPRECATED",
			"metadata_created_date": "2021-06-01T12:30:00Z"
		},
		"variables": [
			{"short_name": "pnr", "is_personal_data": true}
		]
	}`)

	got, err := upgradeV100(before)
	if err != nil {
		t.Fatalf("upgradeV100() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("upgradeV100() = %v, want %v", got, want)
	}
}

func TestUpgradeV100RejectsGarbageTimestamp(t *testing.T) {
	before := tree(t, `{
		"dataset": {"metadata_created_date": "not a date"},
		"variables": []
	}`)
	if _, err := upgradeV100(before); err == nil {
		t.Fatalf("expected error for unparseable timestamp")
	}
}

func TestUpgradeV200BeforeAfter(t *testing.T) {
	before := tree(t, `{
		"document_version": "2.0.0",
		"dataset": {
			"short_name": "trade",
			"data_source": "customs declarations"
		},
		"variables": [
			{"short_name": "amount", "comment": "Declared value"}
		]
	}`)
	want := tree(t, `{
		"document_version": "2.1.0",
		"dataset": {
			"short_name": "trade",
			"contains_data_from": null,
			"contains_data_until": null
		},
		"variables": [
			{"short_name": "amount", "comment": "Declared value", "measurement_unit": null}
		]
	}`)

	got, err := upgradeV200(before)
	if err != nil {
		t.Fatalf("upgradeV200() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("upgradeV200() = %v, want %v", got, want)
	}
}

func TestUpgradeUntaggedLegacyBeforeAfter(t *testing.T) {
	before := tree(t, `{
		"dataset": {"created_by": "ana@example.com"}
	}`)
	want := tree(t, `{
		"document_version": "0.1.1",
		"percentage_complete": 0,
		"dataset": {"created_by": "ana@example.com"},
		"variables": []
	}`)

	got, err := upgradeUntaggedLegacy(before)
	if err != nil {
		t.Fatalf("upgradeUntaggedLegacy() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("upgradeUntaggedLegacy() = %v, want %v", got, want)
	}
}
