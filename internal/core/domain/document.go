package domain

import "time"

// DocumentVersion is the schema version written to every saved document.
// Older versions are upgraded on read by the compat package.
const DocumentVersion = "2.1.0"

type DataType string

const (
	DataTypeInteger  DataType = "INTEGER"
	DataTypeFloat    DataType = "FLOAT"
	DataTypeString   DataType = "STRING"
	DataTypeDatetime DataType = "DATETIME"
	DataTypeBoolean  DataType = "BOOLEAN"
)

type Assessment string

const (
	AssessmentSensitive Assessment = "SENSITIVE"
	AssessmentProtected Assessment = "PROTECTED"
	AssessmentOpen      Assessment = "OPEN"
)

type DatasetStatus string

const (
	StatusDraft      DatasetStatus = "DRAFT"
	StatusInternal   DatasetStatus = "INTERNAL"
	StatusExternal   DatasetStatus = "EXTERNAL"
	StatusDeprecated DatasetStatus = "DEPRECATED"
)

type DatasetState string

const (
	StateSourceData    DatasetState = "SOURCE_DATA"
	StateInputData     DatasetState = "INPUT_DATA"
	StateProcessedData DatasetState = "PROCESSED_DATA"
	StateStatistics    DatasetState = "STATISTICS"
	StateOutputData    DatasetState = "OUTPUT_DATA"
)

type TemporalityType string

const (
	TemporalityFixed       TemporalityType = "FIXED"
	TemporalityStatus      TemporalityType = "STATUS"
	TemporalityAccumulated TemporalityType = "ACCUMULATED"
	TemporalityEvent       TemporalityType = "EVENT"
)

type VariableRole string

const (
	RoleIdentifier VariableRole = "IDENTIFIER"
	RoleMeasure    VariableRole = "MEASURE"
	RoleStartTime  VariableRole = "START_TIME"
	RoleStopTime   VariableRole = "STOP_TIME"
	RoleAttribute  VariableRole = "ATTRIBUTE"
)

// MetadataDocument is the current-version in-memory representation of a
// persisted metadata document.
type MetadataDocument struct {
	DocumentVersion    string     `json:"document_version"`
	PercentageComplete int        `json:"percentage_complete"`
	Dataset            Dataset    `json:"dataset"`
	Variables          []Variable `json:"variables"`
}

// Dataset holds the dataset-level metadata fields. All fields are optional
// until the document is flagged complete.
type Dataset struct {
	ID                         string          `json:"id,omitempty"`
	ShortName                  string          `json:"short_name,omitempty"`
	Assessment                 Assessment      `json:"assessment,omitempty"`
	DatasetStatus              DatasetStatus   `json:"dataset_status,omitempty"`
	DatasetState               DatasetState    `json:"dataset_state,omitempty"`
	Name                       string          `json:"name,omitempty"`
	Description                string          `json:"description,omitempty"`
	PopulationDescription      string          `json:"population_description,omitempty"`
	Version                    string          `json:"version,omitempty"`
	UnitType                   string          `json:"unit_type,omitempty"`
	TemporalityType            TemporalityType `json:"temporality_type,omitempty"`
	SubjectField               string          `json:"subject_field,omitempty"`
	SpatialCoverageDescription string          `json:"spatial_coverage_description,omitempty"`
	Owner                      string          `json:"owner,omitempty"`
	DataSourcePath             string          `json:"data_source_path,omitempty"`
	ContainsDataFrom           string          `json:"contains_data_from,omitempty"`
	ContainsDataUntil          string          `json:"contains_data_until,omitempty"`
	MetadataCreatedDate        *time.Time      `json:"metadata_created_date,omitempty"`
	MetadataCreatedBy          string          `json:"metadata_created_by,omitempty"`
	MetadataLastUpdatedDate    *time.Time      `json:"metadata_last_updated_date,omitempty"`
	MetadataLastUpdatedBy      string          `json:"metadata_last_updated_by,omitempty"`
}

// Variable is the metadata record for one physical column.
//
// ShortName and DataType mirror the dataset file and are overwritten on every
// reconciliation. ID is a surrogate identifier assigned once at creation and
// kept across confirmed renames. All remaining fields are authored by the
// user and are never touched by reconciliation.
type Variable struct {
	ID                      string       `json:"id,omitempty"`
	ShortName               string       `json:"short_name"`
	DataType                DataType     `json:"data_type,omitempty"`
	VariableRole            VariableRole `json:"variable_role,omitempty"`
	DefinitionURI           string       `json:"definition_uri,omitempty"`
	IsPersonalData          *bool        `json:"is_personal_data,omitempty"`
	DataSource              string       `json:"data_source,omitempty"`
	PopulationDescription   string       `json:"population_description,omitempty"`
	Comment                 string       `json:"comment,omitempty"`
	MeasurementUnit         string       `json:"measurement_unit,omitempty"`
	Format                  string       `json:"format,omitempty"`
	ClassificationURI       string       `json:"classification_uri,omitempty"`
	InvalidValueDescription string       `json:"invalid_value_description,omitempty"`
	ContainsDataFrom        string       `json:"contains_data_from,omitempty"`
	ContainsDataUntil       string       `json:"contains_data_until,omitempty"`
}

// ExtractedColumn is one (name, physical type) pair read from a dataset file.
type ExtractedColumn struct {
	ShortName string
	DataType  DataType
}

// HasDocumentation reports whether the user has authored any metadata on the
// variable. VariableRole and IsPersonalData are excluded because they are
// populated with defaults when a variable is first seen.
func (v Variable) HasDocumentation() bool {
	return v.DefinitionURI != "" ||
		v.DataSource != "" ||
		v.PopulationDescription != "" ||
		v.Comment != "" ||
		v.MeasurementUnit != "" ||
		v.Format != "" ||
		v.ClassificationURI != "" ||
		v.InvalidValueDescription != "" ||
		v.ContainsDataFrom != "" ||
		v.ContainsDataUntil != ""
}
