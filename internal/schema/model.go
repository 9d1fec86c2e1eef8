package schema

// StorageType is the canonical, engine-independent storage type of a column.
type StorageType string

const (
	AsciiString         StorageType = "ascii_string"
	BigInt              StorageType = "bigint"
	Binary              StorageType = "binary"
	Blob                StorageType = "blob"
	Boolean             StorageType = "boolean"
	Date                StorageType = "date"
	DateImmutable       StorageType = "date_immutable"
	DateInterval        StorageType = "dateinterval"
	DateTime            StorageType = "datetime"
	DateTimeImmutable   StorageType = "datetime_immutable"
	DateTimeTz          StorageType = "datetimetz"
	DateTimeTzImmutable StorageType = "datetimetz_immutable"
	Decimal             StorageType = "decimal"
	Float               StorageType = "float"
	Guid                StorageType = "guid"
	Integer             StorageType = "integer"
	Json                StorageType = "json"
	SimpleArray         StorageType = "simple_array"
	SmallInt            StorageType = "smallint"
	String              StorageType = "string"
	Text                StorageType = "text"
	Time                StorageType = "time"
	TimeImmutable       StorageType = "time_immutable"
	Unknown             StorageType = "unknown"
)

var storageTypes = []StorageType{
	AsciiString, BigInt, Binary, Blob, Boolean,
	Date, DateImmutable, DateInterval,
	DateTime, DateTimeImmutable, DateTimeTz, DateTimeTzImmutable,
	Decimal, Float, Guid, Integer, Json, SimpleArray, SmallInt,
	String, Text, Time, TimeImmutable, Unknown,
}

// StorageTypes returns every storage type in canonical order.
func StorageTypes() []StorageType {
	out := make([]StorageType, len(storageTypes))
	copy(out, storageTypes)
	return out
}

// Valid reports whether t is one of the canonical storage types.
func (t StorageType) Valid() bool {
	for _, s := range storageTypes {
		if s == t {
			return true
		}
	}
	return false
}

// ParseStorageType maps a normalized type name to its StorageType.
// Anything unrecognized is Unknown.
func ParseStorageType(s string) StorageType {
	t := StorageType(s)
	if t.Valid() {
		return t
	}
	return Unknown
}

// Column describes one column as reported by introspection.
type Column struct {
	Name      string
	Type      StorageType
	Precision *int
	Scale     *int
	Length    *int
	Nullable  bool
}

// Table groups the columns of one table, in ordinal order.
type Table struct {
	Name    string
	Columns []Column
}

// Introspector reads the ordered column list of a table. An empty
// connection name selects the default connection.
type Introspector interface {
	ColumnsOf(table, connection string) ([]Column, error)
}

// IntPtr is a small helper for optional column metadata.
func IntPtr(v int) *int {
	return &v
}
