package usecase

import (
	"path/filepath"
	"strings"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// MetadataDocumentSuffix is appended to the dataset stem to derive the
// metadata document ref, e.g. person_data_v1.parquet -> person_data_v1__DOC.json.
const MetadataDocumentSuffix = "__DOC.json"

// DocumentRefFor derives the storage ref of the metadata document that
// belongs to a dataset path.
func DocumentRefFor(datasetPath string) string {
	dir := filepath.Dir(datasetPath)
	return filepath.Join(dir, datasetStem(datasetPath)+MetadataDocumentSuffix)
}

func datasetStem(datasetPath string) string {
	base := filepath.Base(datasetPath)
	// Trim every extension so person_data_v1.parquet.gzip behaves like
	// person_data_v1.parquet.
	for {
		ext := filepath.Ext(base)
		if ext == "" {
			return base
		}
		base = strings.TrimSuffix(base, ext)
	}
}

// datasetVersion finds version information in a dataset stem, e.g. "1" from
// person_data_v1.
func datasetVersion(stem string) string {
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return ""
	}
	last := parts[len(parts)-1]
	if len(last) < 2 || last[0] != 'v' {
		return ""
	}
	digits := last[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return digits
}

// statePathSegments maps conventional directory names to dataset states.
var statePathSegments = map[string]domain.DatasetState{
	"kildedata":       domain.StateSourceData,
	"inndata":         domain.StateInputData,
	"klargjorte-data": domain.StateProcessedData,
	"klargjorte_data": domain.StateProcessedData,
	"statistikk":      domain.StateStatistics,
	"utdata":          domain.StateOutputData,
}

// datasetStateFromPath guesses the dataset state from the storage layout
// convention. Empty when no segment matches.
func datasetStateFromPath(datasetPath string) domain.DatasetState {
	normalized := strings.ReplaceAll(datasetPath, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if state, ok := statePathSegments[strings.ToLower(segment)]; ok {
			return state
		}
	}
	return ""
}
