// Package jsonvalue holds a tagged JSON value type used for user-supplied message
// payloads. Objects keep their insertion order so payloads are written back the way
// the user wrote them.
package jsonvalue

import (
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	s      string // string contents, or the literal text of a number
	items  []Value
	keys   []string
	fields map[string]Value
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return Value{kind: Number, s: strconv.FormatInt(n, 10)} }

// NumberValue wraps a number literal without reformatting it.
func NumberValue(n json.Number) Value { return Value{kind: Number, s: n.String()} }

// ArrayValue builds an array from the given items.
func ArrayValue(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: Array, items: out}
}

// Member is a single key/value pair used to build objects in order.
type Member struct {
	Key   string
	Value Value
}

// ObjectValue builds an object from members. Later duplicates overwrite the value
// of earlier ones but keep the first position.
func ObjectValue(members ...Member) Value {
	obj := Value{kind: Object, fields: make(map[string]Value, len(members))}
	for _, m := range members {
		obj.put(m.Key, m.Value)
	}
	return obj
}

func (v *Value) put(key string, val Value) {
	if _, ok := v.fields[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Str returns the string contents when v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Len is the number of items of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	}
	return 0
}

// Items returns a copy of the array items, or nil for non-arrays.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Get looks up an object member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	val, ok := v.fields[key]
	return val, ok
}

// Has reports whether v is an object containing key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// HasAny reports whether v is an object containing at least one of keys.
func (v Value) HasAny(keys ...string) bool {
	for _, k := range keys {
		if v.Has(k) {
			return true
		}
	}
	return false
}

// Set returns a copy of the object with key set to val. Non-objects are returned
// unchanged.
func (v Value) Set(key string, val Value) Value {
	if v.kind != Object {
		return v
	}
	out := Value{kind: Object, keys: make([]string, len(v.keys), len(v.keys)+1), fields: make(map[string]Value, len(v.fields)+1)}
	copy(out.keys, v.keys)
	for k, fv := range v.fields {
		out.fields[k] = fv
	}
	out.put(key, val)
	return out
}

// Truthy follows the usual scripting-language rules: null, false, zero, and empty
// strings or containers are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		f, err := strconv.ParseFloat(v.s, 64)
		return err == nil && f != 0
	case String:
		return v.s != ""
	case Array, Object:
		return v.Len() > 0
	}
	return false
}

// MapStrings rebuilds v with every string leaf passed through fn. Object keys and
// non-string scalars are left alone.
func MapStrings(v Value, fn func(string) string) Value {
	switch v.kind {
	case String:
		return StringValue(fn(v.s))
	case Array:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = MapStrings(item, fn)
		}
		return Value{kind: Array, items: items}
	case Object:
		out := Value{kind: Object, keys: make([]string, len(v.keys)), fields: make(map[string]Value, len(v.fields))}
		copy(out.keys, v.keys)
		for k, fv := range v.fields {
			out.fields[k] = MapStrings(fv, fn)
		}
		return out
	}
	return v
}
