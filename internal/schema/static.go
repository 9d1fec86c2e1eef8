package schema

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// StaticSource serves column metadata from a YAML schema file instead of a
// live database.
//
//	default: main
//	connections:
//	  main:
//	    tables:
//	      products:
//	        - {name: id, type: bigint}
//	        - {name: price, type: decimal, precision: 10, scale: 2}
type StaticSource struct {
	defaultConn string
	conns       map[string]map[string][]Column
}

type staticFile struct {
	Default     string                    `yaml:"default"`
	Connections map[string]staticDatabase `yaml:"connections"`
}

type staticDatabase struct {
	Tables map[string][]staticColumn `yaml:"tables"`
}

type staticColumn struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Precision *int   `yaml:"precision"`
	Scale     *int   `yaml:"scale"`
	Length    *int   `yaml:"length"`
	Nullable  bool   `yaml:"nullable"`
}

// LoadStaticFile reads a static schema file from fs.
func LoadStaticFile(fs afero.Fs, path string) (*StaticSource, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return ParseStatic(data)
}

// ParseStatic parses a static schema document.
func ParseStatic(data []byte) (*StaticSource, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	src := &StaticSource{
		defaultConn: f.Default,
		conns:       make(map[string]map[string][]Column, len(f.Connections)),
	}
	for connName, db := range f.Connections {
		tables := make(map[string][]Column, len(db.Tables))
		for tableName, cols := range db.Tables {
			out := make([]Column, 0, len(cols))
			for _, c := range cols {
				if c.Name == "" {
					return nil, fmt.Errorf("column without name in %s.%s", connName, tableName)
				}
				out = append(out, Column{
					Name:      c.Name,
					Type:      ParseStorageType(strings.ToLower(strings.TrimSpace(c.Type))),
					Precision: c.Precision,
					Scale:     c.Scale,
					Length:    c.Length,
					Nullable:  c.Nullable,
				})
			}
			tables[tableName] = out
		}
		src.conns[connName] = tables
	}

	if src.defaultConn == "" && len(src.conns) == 1 {
		for name := range src.conns {
			src.defaultConn = name
		}
	}
	return src, nil
}

// ColumnsOf implements Introspector.
func (s *StaticSource) ColumnsOf(table, connection string) ([]Column, error) {
	if connection == "" {
		connection = s.defaultConn
	}
	tables, ok := s.conns[connection]
	if !ok {
		return nil, fmt.Errorf("unknown connection %q", connection)
	}
	cols, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found on connection %q", table, connection)
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return out, nil
}

var _ Introspector = (*StaticSource)(nil)
