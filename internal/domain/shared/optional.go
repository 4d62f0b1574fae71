package shared

import (
	"bytes"
	"encoding/json"
)

// Optional is a three-state optional value: absent, present-null, or
// present-value. Import payloads distinguish "the key was not supplied"
// from "the key was supplied as empty", and downstream update logic skips
// absent fields entirely while present-null fields clear the target.
//
// The zero value of Optional is absent, so a struct field that is never
// touched during JSON decoding reports Present() == false.
type Optional[T any] struct {
	present bool
	null    bool
	value   T
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{present: true, value: v}
}

// Null returns a present Optional holding an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Present reports whether the key was supplied at all
func (o Optional[T]) Present() bool {
	return o.present
}

// IsNull reports whether the key was supplied as an explicit null
func (o Optional[T]) IsNull() bool {
	return o.present && o.null
}

// HasValue reports whether a concrete value was supplied
func (o Optional[T]) HasValue() bool {
	return o.present && !o.null
}

// Get returns the value and whether a concrete value was supplied
func (o Optional[T]) Get() (T, bool) {
	if !o.HasValue() {
		var zero T
		return zero, false
	}
	return o.value, true
}

// MustGet returns the value; the zero value of T when no value is present
func (o Optional[T]) MustGet() T {
	return o.value
}

// Or returns the value when present, otherwise def
func (o Optional[T]) Or(def T) T {
	if o.HasValue() {
		return o.value
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler. A field that is missing from
// the document is never unmarshalled and stays absent; a literal null
// becomes present-null; anything else becomes present-value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(data, []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON implements json.Marshaler. Absent and present-null both encode
// as null; callers that need to drop absent fields must use omitempty-aware
// encoding at the struct level.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
