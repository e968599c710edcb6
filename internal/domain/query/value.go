// Package query holds the wire-level data model exchanged between the
// query execution core and its callers: tagged parameter/result values and
// the request/response envelopes carrying them.
package query

// Tag discriminates the populated field of a Value.
type Tag int

const (
	TagNone Tag = iota
	TagBool
	TagBytes
	TagChar
	TagString
	TagInt4
	TagInt8
	TagFloat
	TagDouble
	TagJSON
)

// Value is a tagged union over every scalar type the parameter and row
// codecs exchange with PostgreSQL. Only the field matching Tag is
// meaningful; TagNone represents SQL NULL.
type Value struct {
	Tag    Tag     `msgpack:"tag" json:"tag"`
	Bool   bool    `msgpack:"bool,omitempty" json:"bool,omitempty"`
	Bytes  []byte  `msgpack:"bytes,omitempty" json:"bytes,omitempty"`
	Char   int32   `msgpack:"char,omitempty" json:"char,omitempty"`
	String string  `msgpack:"string,omitempty" json:"string,omitempty"`
	Int4   int32   `msgpack:"int4,omitempty" json:"int4,omitempty"`
	Int8   int64   `msgpack:"int8,omitempty" json:"int8,omitempty"`
	Float  float32 `msgpack:"float,omitempty" json:"float,omitempty"`
	Double float64 `msgpack:"double,omitempty" json:"double,omitempty"`
	JSON   string  `msgpack:"json,omitempty" json:"json,omitempty"`
}

func NoneValue() Value               { return Value{Tag: TagNone} }
func BoolValue(v bool) Value         { return Value{Tag: TagBool, Bool: v} }
func BytesValue(v []byte) Value      { return Value{Tag: TagBytes, Bytes: v} }
func CharValue(v int32) Value        { return Value{Tag: TagChar, Char: v} }
func StringValue(v string) Value     { return Value{Tag: TagString, String: v} }
func Int4Value(v int32) Value        { return Value{Tag: TagInt4, Int4: v} }
func Int8Value(v int64) Value        { return Value{Tag: TagInt8, Int8: v} }
func FloatValue(v float32) Value     { return Value{Tag: TagFloat, Float: v} }
func DoubleValue(v float64) Value    { return Value{Tag: TagDouble, Double: v} }
func JSONValue(v string) Value       { return Value{Tag: TagJSON, JSON: v} }
