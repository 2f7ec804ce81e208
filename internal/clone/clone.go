// Package clone provides reflective deep copies for payloads whose shape is
// not known at compile time.
package clone

import "reflect"

// Clone returns a deep copy of value. Pointers, maps, slices, arrays, and
// structs are copied recursively; unexported struct fields are left at their
// zero value since they cannot be set through reflection.
func Clone[T any](value T) T {
	rv := reflect.ValueOf(value)
	cloned := cloneValue(rv)
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := cloneValue(v.Elem())
		result := reflect.New(v.Type()).Elem()
		result.Set(clone)
		return result
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		result := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return result
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		result := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			result.Index(i).Set(cloneValue(v.Index(i)))
		}
		return result
	case reflect.Array:
		result := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			result.Index(i).Set(cloneValue(v.Index(i)))
		}
		return result
	case reflect.Struct:
		result := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := result.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return result
	default:
		return v
	}
}
