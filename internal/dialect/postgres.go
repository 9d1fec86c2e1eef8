package dialect

import "strings"

type PostgresDialect struct{}

var postgresTypes = map[string]string{
	"bool":        "boolean",
	"int2":        "smallint",
	"int4":        "integer",
	"int8":        "bigint",
	"numeric":     "decimal",
	"money":       "decimal",
	"float4":      "float",
	"float8":      "float",
	"bpchar":      "string",
	"char":        "string",
	"varchar":     "string",
	"citext":      "text",
	"text":        "text",
	"bytea":       "blob",
	"date":        "date",
	"timestamp":   "datetime",
	"timestamptz": "datetimetz",
	"time":        "time",
	"timetz":      "time",
	"interval":    "dateinterval",
	"json":        "json",
	"jsonb":       "json",
	"uuid":        "guid",
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// UDT_NAME is more precise than DATA_TYPE (int4 vs integer, _text vs ARRAY).
	return `SELECT
    c.column_name,
    c.udt_name,
    c.character_maximum_length,
    c.numeric_precision,
    c.numeric_scale,
    c.is_nullable
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`
}

func (d *PostgresDialect) GetCurrentSchemaQuery() string {
	return ""
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	// Array UDTs are prefixed with an underscore (_int4, _text).
	if strings.HasPrefix(t, "_") {
		return "simple_array"
	}
	return lookupType(postgresTypes, t)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
