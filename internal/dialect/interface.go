package dialect

// Dialect abstracts the database-specific parts of schema introspection.
type Dialect interface {
	// GetColumnsQuery returns a query taking (schema, table) that yields
	// name, type, character length, numeric precision, numeric scale and
	// nullability ("YES"/"NO") per column, in ordinal order.
	GetColumnsQuery(schema string) string

	// GetCurrentSchemaQuery returns a query yielding the session's schema,
	// or "" when the dialect has a fixed default.
	GetCurrentSchemaQuery() string

	// NormalizeType maps a native type name to a canonical storage type name.
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
