package dialect

type MSSQLDialect struct{}

var mssqlTypes = map[string]string{
	"bit":              "boolean",
	"tinyint":          "smallint",
	"smallint":         "smallint",
	"int":              "integer",
	"bigint":           "bigint",
	"decimal":          "decimal",
	"numeric":          "decimal",
	"money":            "decimal",
	"smallmoney":       "decimal",
	"float":            "float",
	"real":             "float",
	"char":             "string",
	"nchar":            "string",
	"varchar":          "string",
	"nvarchar":         "string",
	"text":             "text",
	"ntext":            "text",
	"xml":              "text",
	"binary":           "binary",
	"varbinary":        "blob",
	"image":            "blob",
	"date":             "date",
	"datetime":         "datetime",
	"datetime2":        "datetime",
	"smalldatetime":    "datetime",
	"datetimeoffset":   "datetimetz",
	"time":             "time",
	"uniqueidentifier": "guid",
}

// go-mssqldb prefers @p1, @p2 named parameters over ?.

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	// CHARACTER_MAXIMUM_LENGTH is -1 for (MAX) columns.
	return `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.NUMERIC_PRECISION,
			c.NUMERIC_SCALE,
			c.IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS c
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetCurrentSchemaQuery() string {
	return ""
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return lookupType(mssqlTypes, sqlType)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
