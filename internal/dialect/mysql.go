package dialect

type MysqlDialect struct{}

var mysqlTypes = map[string]string{
	"bool":       "boolean",
	"boolean":    "boolean",
	"tinyint":    "smallint",
	"smallint":   "smallint",
	"year":       "smallint",
	"mediumint":  "integer",
	"int":        "integer",
	"integer":    "integer",
	"bigint":     "bigint",
	"decimal":    "decimal",
	"numeric":    "decimal",
	"float":      "float",
	"double":     "float",
	"real":       "float",
	"char":       "string",
	"varchar":    "string",
	"enum":       "string",
	"set":        "simple_array",
	"tinytext":   "text",
	"text":       "text",
	"mediumtext": "text",
	"longtext":   "text",
	"binary":     "binary",
	"varbinary":  "binary",
	"tinyblob":   "blob",
	"blob":       "blob",
	"mediumblob": "blob",
	"longblob":   "blob",
	"date":       "date",
	"datetime":   "datetime",
	"timestamp":  "datetime",
	"time":       "time",
	"json":       "json",
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	// tinyint(1) is how MySQL spells BOOLEAN.
	return `SELECT COLUMN_NAME, CASE WHEN COLUMN_TYPE LIKE 'tinyint(1)%' THEN 'boolean' ELSE DATA_TYPE END, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) GetCurrentSchemaQuery() string {
	return "SELECT DATABASE()"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return lookupType(mysqlTypes, sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
