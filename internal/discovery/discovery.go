// Package discovery finds the persistent entities of an application from
// YAML descriptors on disk.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCreatedAt = "created_at"
	DefaultUpdatedAt = "updated_at"
)

// Entity describes one persistent entity.
type Entity struct {
	Name            string // fully qualified
	Table           string
	Connection      string // empty means the default connection
	CreatedAtColumn string
	UpdatedAtColumn string
}

// EntityName returns the fully-qualified name.
func (e Entity) EntityName() string { return e.Name }

// Params locates the entity descriptors. A nil field is "not configured".
type Params struct {
	Directory     *string `json:"directory"`
	BasePath      *string `json:"basePath"`
	BaseNamespace *string `json:"baseNamespace"`
}

// Discoverer lists entities in a stable order.
type Discoverer interface {
	Discover(p Params) ([]Entity, error)
}

// descriptor is the on-disk shape of an entity file. A timestamps key is
// accepted and ignored.
type descriptor struct {
	Name       string `yaml:"name"`
	Table      string `yaml:"table"`
	Connection string `yaml:"connection"`
	CreatedAt  string `yaml:"created_at"`
	UpdatedAt  string `yaml:"updated_at"`
}

// Finder discovers entities by walking a directory of descriptor files.
type Finder struct {
	Fs afero.Fs
}

// NewFinder returns a Finder over fsys, or the OS filesystem when nil.
func NewFinder(fsys afero.Fs) *Finder {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Finder{Fs: fsys}
}

// Discover walks p.Directory in lexical order. A missing or unset
// directory yields no entities.
func (f *Finder) Discover(p Params) ([]Entity, error) {
	if p.Directory == nil || *p.Directory == "" {
		return nil, nil
	}
	dir := filepath.Clean(*p.Directory)

	exists, err := afero.DirExists(f.Fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !exists {
		return nil, nil
	}

	base := dir
	if p.BasePath != nil && *p.BasePath != "" {
		base = filepath.Clean(*p.BasePath)
	}
	namespace := ""
	if p.BaseNamespace != nil {
		namespace = strings.Trim(*p.BaseNamespace, ".\\/")
	}

	var files []string
	err = afero.Walk(f.Fs, dir, func(file string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)

	entities := make([]Entity, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		e, err := f.load(file, base, namespace)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("entity %q is declared by both %s and %s", e.Name, prev, file)
		}
		seen[e.Name] = file
		entities = append(entities, e)
	}
	return entities, nil
}

func (f *Finder) load(file, base, namespace string) (Entity, error) {
	data, err := afero.ReadFile(f.Fs, file)
	if err != nil {
		return Entity{}, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Entity{}, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	name := d.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	if d.Table == "" {
		return Entity{}, fmt.Errorf("%s: entity %q has no table", file, name)
	}

	// The timestamp column names hold even when timestamps are turned off.
	return Entity{
		Name:            qualify(namespace, segments(base, filepath.Dir(file)), name),
		Table:           d.Table,
		Connection:      d.Connection,
		CreatedAtColumn: orDefault(d.CreatedAt, DefaultCreatedAt),
		UpdatedAtColumn: orDefault(d.UpdatedAt, DefaultUpdatedAt),
	}, nil
}

// segments returns the path elements of dir below base.
func segments(base, dir string) []string {
	rel, err := filepath.Rel(base, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

func qualify(namespace string, dirs []string, name string) string {
	parts := make([]string, 0, len(dirs)+2)
	if namespace != "" {
		parts = append(parts, namespace)
	}
	parts = append(parts, dirs...)
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ Discoverer = (*Finder)(nil)
