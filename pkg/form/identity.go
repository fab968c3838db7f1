package form

import "reflect"

// identical reports whether a and b are the same value in the
// shallow-identity sense driving pristine/dirty detection. Slices, maps,
// pointers, channels and funcs compare by data pointer, so a fresh
// allocation always registers as a change even with identical contents.
// Scalars compare by ==, the same identity primitives have everywhere.
// Struct and array values are copied on every write and carry no identity
// in Go; they fall back to deep comparison.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Slice:
		return ra.Len() == rb.Len() && ra.UnsafePointer() == rb.UnsafePointer()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.UnsafePointer() == rb.UnsafePointer()
	case reflect.Struct, reflect.Array:
		return reflect.DeepEqual(a, b)
	default:
		return a == b
	}
}
