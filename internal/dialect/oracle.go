package dialect

import "strings"

type OracleDialect struct{}

var oracleTypes = map[string]string{
	"integer":       "integer",
	"decimal":       "decimal",
	"float":         "float",
	"binary_float":  "float",
	"binary_double": "float",
	"char":          "string",
	"nchar":         "string",
	"varchar2":      "string",
	"nvarchar2":     "string",
	"clob":          "text",
	"nclob":         "text",
	"long":          "text",
	"raw":           "binary",
	"blob":          "blob",
	"long raw":      "blob",
	"date":          "datetime", // Oracle DATE carries a time part
	"json":          "json",
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	// USER_TAB_COLUMNS lists the current user's tables, so the schema bind
	// is only consumed to keep the (schema, table) argument order.
	return `
SELECT
    t.COLUMN_NAME,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        ELSE t.DATA_TYPE
    END,
    t.CHAR_LENGTH,
    t.DATA_PRECISION,
    t.DATA_SCALE,
    CASE t.NULLABLE WHEN 'Y' THEN 'YES' ELSE 'NO' END
FROM USER_TAB_COLUMNS t
WHERE :1 IS NOT NULL AND UPPER(t.TABLE_NAME) = UPPER(:2)
ORDER BY t.COLUMN_ID`
}

func (d *OracleDialect) GetCurrentSchemaQuery() string {
	return ""
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch {
	case strings.HasPrefix(t, "timestamp") && strings.Contains(t, "time zone"):
		return "datetimetz"
	case strings.HasPrefix(t, "timestamp"):
		return "datetime"
	case strings.HasPrefix(t, "interval"):
		return "dateinterval"
	}
	return lookupType(oracleTypes, t)
}

func (d *OracleDialect) GetSchemaName(input string) string {
	if input == "" {
		return "USER"
	}
	return input
}
