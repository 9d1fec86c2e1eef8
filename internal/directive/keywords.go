package directive

// Built-in cast keywords understood by the host runtime.
const (
	Array             = "array"
	Boolean           = "boolean"
	Collection        = "collection"
	Date              = "date"
	DateTime          = "datetime"
	ImmutableDate     = "immutable_date"
	ImmutableDateTime = "immutable_datetime"
	Double            = "double"
	Float             = "float"
	Integer           = "integer"
	Object            = "object"
	Real              = "real"
	String            = "string"
	Timestamp         = "timestamp"

	// Parameterizable.
	Decimal             = "decimal" // decimal:<precision>
	Encrypted           = "encrypted"
	EncryptedArray      = "encrypted:array"
	EncryptedJson       = "encrypted:json"
	EncryptedCollection = "encrypted:collection"
	EncryptedObject     = "encrypted:object"

	// Aliases.
	Int                     = "int"
	Bool                    = "bool"
	Json                    = "json"
	CustomDateTime          = "custom_datetime"
	ImmutableCustomDateTime = "immutable_custom_datetime"

	// Castables shipped with the host runtime.
	AsStringable           = `Illuminate\Database\Eloquent\Casts\AsStringable`
	AsArrayObject          = `Illuminate\Database\Eloquent\Casts\AsArrayObject`
	AsCollection           = `Illuminate\Database\Eloquent\Casts\AsCollection`
	AsEncryptedArrayObject = `Illuminate\Database\Eloquent\Casts\AsEncryptedArrayObject`
	AsEncryptedCollection  = `Illuminate\Database\Eloquent\Casts\AsEncryptedCollection`
)

var keywords = []string{
	Array, Boolean, Collection, Date, DateTime, ImmutableDate, ImmutableDateTime,
	Double, Float, Integer, Object, Real, String, Timestamp,
	Decimal, Encrypted, EncryptedArray, EncryptedJson, EncryptedCollection, EncryptedObject,
	Int, Bool, Json, CustomDateTime, ImmutableCustomDateTime,
	AsStringable, AsArrayObject, AsCollection, AsEncryptedArrayObject, AsEncryptedCollection,
}

// Keywords returns the built-in keyword set.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
