package form

import (
	"reflect"
	"strconv"
	"strings"
)

// The lens helpers project one key out of a parent value and rewrite it
// immutably: every write shallow-copies exactly one level. Keys address
// struct fields (by `form` tag or case-insensitive name, as in form
// binding), string-keyed map entries, and numeric slice indices.

// keyValue projects the value at key out of pv. Missing keys and
// out-of-range indices project the zero value (nil).
func keyValue(pv any, key string) any {
	if pv == nil {
		return nil
	}

	if m, ok := pv.(map[string]any); ok {
		return m[key]
	}

	rv := reflect.ValueOf(pv)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return keyValue(rv.Elem().Interface(), key)
	case reflect.Struct:
		f := structFieldByKey(rv, key)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		return f.Interface()
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if !kv.Type().ConvertibleTo(rv.Type().Key()) {
			return nil
		}
		v := rv.MapIndex(kv.Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

// withKey returns a shallow copy of pv with key replaced by child.
// Unknown keys on structs and out-of-range indices return pv unchanged.
func withKey(pv any, key string, child any) any {
	if m, ok := pv.(map[string]any); ok {
		out := make(map[string]any, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		out[key] = child
		return out
	}

	rv := reflect.ValueOf(pv)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return pv
		}
		inner := withKey(rv.Elem().Interface(), key, child)
		np := reflect.New(rv.Type().Elem())
		np.Elem().Set(convertValue(inner, rv.Type().Elem()))
		return np.Interface()
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		f := structFieldByKey(out, key)
		if f.IsValid() && f.CanSet() {
			f.Set(convertValue(child, f.Type()))
		}
		return out.Interface()
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if !kv.Type().ConvertibleTo(rv.Type().Key()) {
			return pv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len()+1)
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		out.SetMapIndex(kv.Convert(rv.Type().Key()), convertValue(child, rv.Type().Elem()))
		return out.Interface()
	case reflect.Slice:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return pv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		out.Index(i).Set(convertValue(child, rv.Type().Elem()))
		return out.Interface()
	}
	return pv
}

// structFieldByKey finds an exported field by `form` tag or by
// case-insensitive name. A tag of "-" opts the field out.
func structFieldByKey(rv reflect.Value, key string) reflect.Value {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("form")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(field.Name)
		}
		if tag == key || strings.EqualFold(field.Name, key) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}

// convertValue adapts v to type t, falling back to t's zero value when no
// conversion exists.
func convertValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv
	}
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return reflect.Zero(t)
}

// asType converts a type-erased value back to T, tolerating nil and
// convertible representations.
func asType[T any](v any) T {
	if tv, ok := v.(T); ok {
		return tv
	}
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	out, _ := convertValue(v, t).Interface().(T)
	return out
}
