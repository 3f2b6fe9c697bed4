package schema

import (
	"strings"

	"github.com/nordstat/datadoc/internal/core/domain"
)

// Statistical metadata cares about the meaning of a type, not its physical
// encoding, so concrete type names are folded into a small abstract set.
// Unknown names map to the empty type and are left for the user to fill in.
var typeNames = map[string]domain.DataType{}

func init() {
	register := func(dt domain.DataType, names ...string) {
		for _, n := range names {
			typeNames[n] = dt
		}
	}
	register(domain.DataTypeInteger,
		"int", "int8", "int16", "int32", "int64", "integer", "long",
		"uint", "uint8", "uint16", "uint32", "uint64")
	register(domain.DataTypeFloat,
		"double", "float", "float16", "float32", "float64",
		"decimal", "number", "numeric", "num")
	register(domain.DataTypeString,
		"string", "str", "char", "varchar", "varchar2", "text", "txt", "bytes")
	register(domain.DataTypeDatetime,
		"timestamp", "timestamp[us]", "timestamp[ns]", "datetime64",
		"date", "datetime", "time")
	register(domain.DataTypeBoolean, "bool", "boolean")
}

// NormalizeTypeName maps a concrete type name to its abstract data type.
func NormalizeTypeName(name string) domain.DataType {
	return typeNames[strings.ToLower(strings.TrimSpace(name))]
}
