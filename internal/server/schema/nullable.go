package schema

import (
	"bytes"
	"encoding/json"
)

// Nullable is an optional JSON value that tells an absent key apart from an
// explicit null. The zero value is absent.
type Nullable[T any] struct {
	value T
	set   bool
	null  bool
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, set: true}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{set: true, null: true}
}

// IsSet reports whether the key was present (null included).
func (n Nullable[T]) IsSet() bool { return n.set }

func (n Nullable[T]) IsNull() bool { return n.set && n.null }

// Get returns the value and whether a non-null value was supplied.
func (n Nullable[T]) Get() (T, bool) {
	return n.value, n.set && !n.null
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		n.value, n.null = zero, true
		return nil
	}
	n.null = false
	return json.Unmarshal(b, &n.value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.set || n.null {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}
