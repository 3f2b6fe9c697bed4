package usecase

import "github.com/nordstat/datadoc/internal/core/domain"

// Obligatory fields drive the percentage_complete quality indicator. A field
// counts as complete when it holds any value.

func completedDatasetFields(ds domain.Dataset) (set, total int) {
	fields := []string{
		ds.ShortName,
		ds.Name,
		ds.Description,
		ds.PopulationDescription,
		string(ds.Assessment),
		string(ds.DatasetState),
		string(ds.TemporalityType),
		ds.UnitType,
		ds.SubjectField,
		ds.Owner,
	}
	for _, f := range fields {
		if f != "" {
			set++
		}
	}
	return set, len(fields)
}

func completedVariableFields(v domain.Variable) (set, total int) {
	total = 4
	if v.DataType != "" {
		set++
	}
	if v.VariableRole != "" {
		set++
	}
	if v.DefinitionURI != "" {
		set++
	}
	if v.IsPersonalData != nil {
		set++
	}
	return set, total
}

// CalculatePercentComplete returns how much of the obligatory metadata has
// been filled in, over the dataset fields and every variable.
func CalculatePercentComplete(doc *domain.MetadataDocument) int {
	set, total := completedDatasetFields(doc.Dataset)
	for _, v := range doc.Variables {
		vs, vt := completedVariableFields(v)
		set += vs
		total += vt
	}
	if total == 0 {
		return 0
	}
	return int(float64(set) / float64(total) * 100)
}
