package inventory

import "encoding/json"

// Field is a tri-state value for partial updates. The zero value means
// "leave unchanged"; Set carries a new value; Clear sets the column to NULL.
//
// Decoded from JSON request bodies: an absent key stays the zero value, an
// explicit null becomes Clear, anything else becomes Set.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns a field carrying a new value.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Clear returns a field that nulls the column out.
func Clear[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Changed reports whether the field modifies anything at all.
func (f Field[T]) Changed() bool { return f.present }

// IsClear reports whether the field nulls the column out.
func (f Field[T]) IsClear() bool { return f.present && f.null }

// Value returns the new value and true when the field sets one.
func (f Field[T]) Value() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// UnmarshalJSON is only invoked for keys present in the document, so the
// absent case never reaches it and stays the zero value.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.present = true
	if string(b) == "null" {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(b, &f.value)
}

// MarshalJSON round-trips Set and Clear; unchanged fields encode as null,
// callers must omit them instead of relying on this.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if v, ok := f.Value(); ok {
		return json.Marshal(v)
	}
	return []byte("null"), nil
}
