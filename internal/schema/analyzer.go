package schema

import (
	"database/sql"
	"fmt"

	"auto-cast/internal/dialect"
)

// ---------------------------------------------------------------------
// 1. Live Database Source
// ---------------------------------------------------------------------

// Connection is one named database handle used for introspection.
// Its lifecycle belongs to whoever opened DB.
type Connection struct {
	Name    string
	DB      *sql.DB
	Dialect dialect.Dialect
	Schema  string
}

// DBSource introspects tables over one or more live connections.
type DBSource struct {
	defaultConn string
	conns       map[string]*Connection
}

// NewDBSource registers conns; defaultConn answers requests with an empty
// connection name.
func NewDBSource(defaultConn string, conns ...*Connection) *DBSource {
	s := &DBSource{defaultConn: defaultConn, conns: make(map[string]*Connection, len(conns))}
	for _, c := range conns {
		s.conns[c.Name] = c
	}
	return s
}

// ColumnsOf implements Introspector.
func (s *DBSource) ColumnsOf(table, connection string) ([]Column, error) {
	if connection == "" {
		connection = s.defaultConn
	}
	c, ok := s.conns[connection]
	if !ok {
		return nil, fmt.Errorf("unknown connection %q", connection)
	}

	cols, err := Analyze(c.DB, c.Dialect, c.Schema, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found on connection %q", table, connection)
	}
	return cols, nil
}

var _ Introspector = (*DBSource)(nil)

// ---------------------------------------------------------------------
// 2. Schema Analysis Logic
// ---------------------------------------------------------------------

// CurrentSchema resolves the schema to introspect: the configured one,
// the session's current schema, or the dialect default.
func CurrentSchema(db *sql.DB, d dialect.Dialect, configured string) (string, error) {
	if configured != "" {
		return d.GetSchemaName(configured), nil
	}
	q := d.GetCurrentSchemaQuery()
	if q == "" {
		return d.GetSchemaName(""), nil
	}

	var name sql.NullString
	if err := db.QueryRow(q).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get current schema name: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("no database selected in DSN")
	}
	return name.String, nil
}

// Analyze reads the columns of one table in ordinal order.
func Analyze(db *sql.DB, d dialect.Dialect, schemaName, table string) ([]Column, error) {
	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	rows, err := db.Query(d.GetColumnsQuery(target), target, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var cName, dType, cLen, nPrec, nScale, isNull sql.NullString
		if err := rows.Scan(&cName, &dType, &cLen, &nPrec, &nScale, &isNull); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !cName.Valid {
			continue // Skip invalid rows
		}
		cols = append(cols, columnFromRow(d, cName.String, dType, cLen, nPrec, nScale, isNull))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	return cols, nil
}

func columnFromRow(d dialect.Dialect, name string, dType, cLen, nPrec, nScale, isNull sql.NullString) Column {
	return Column{
		Name:      name,
		Type:      ParseStorageType(d.NormalizeType(dType.String)),
		Length:    parseSize(cLen),
		Precision: parseSize(nPrec),
		Scale:     parseSize(nScale),
		Nullable:  isNull.String == "YES",
	}
}

// parseSize reads an optional numeric metadata cell. Drivers report these
// as integers, decimals or strings, so it is scanned as text.
func parseSize(v sql.NullString) *int {
	if !v.Valid || v.String == "" {
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(v.String, "%d", &n); err != nil {
		var f float64
		if _, err := fmt.Sscanf(v.String, "%f", &f); err != nil {
			return nil
		}
		n = int(f)
	}
	if n < 0 {
		// (MAX) columns on SQL Server
		return nil
	}
	return &n
}
