package lineage

import (
	"fmt"
	"reflect"
	"strings"
)

// Equaler lets object types define value equality for deduplication purposes.
// Types that do not implement it fall back to ==  for comparable kinds and to
// backing-pointer identity for maps, slices, pointers, and funcs.
type Equaler interface {
	Equal(other any) bool
}

// DesignatedObject is an immutable triple pairing an object with the
// designator naming the part of interest and the context markers it was
// observed under. It is the deduplication key for terminal graph nodes.
type DesignatedObject struct {
	designator Designator
	object     any
	context    []any
}

// NewDesignatedObject constructs a designated object. The context sequence is
// copied so later mutation of the caller's slice does not leak in.
func NewDesignatedObject(designator Designator, object any, context ...any) DesignatedObject {
	if designator == nil {
		designator = Nothing
	}
	var markers []any
	if len(context) > 0 {
		markers = append([]any(nil), context...)
	}
	return DesignatedObject{
		designator: designator,
		object:     object,
		context:    markers,
	}
}

// Designator returns the designator naming the part of interest.
func (do DesignatedObject) Designator() Designator {
	return do.designator
}

// Object returns the underlying object.
func (do DesignatedObject) Object() any {
	return do.object
}

// Context returns a copy of the context markers the object was observed under.
func (do DesignatedObject) Context() []any {
	if len(do.context) == 0 {
		return nil
	}
	return append([]any(nil), do.context...)
}

// Equal reports value equality: designators must match, context sequences must
// match position by position, and the objects must either both be nil or
// compare equal.
func (do DesignatedObject) Equal(other DesignatedObject) bool {
	if !EqualDesignators(do.designator, other.designator) {
		return false
	}
	if len(do.context) != len(other.context) {
		return false
	}
	for i := range do.context {
		if !objectsEqual(do.context[i], other.context[i]) {
			return false
		}
	}
	if do.object == nil && other.object == nil {
		return true
	}
	return objectsEqual(do.object, other.object)
}

func (do DesignatedObject) String() string {
	var sb strings.Builder
	sb.WriteString(do.designator.String())
	sb.WriteString(" of ")
	sb.WriteString(describeObject(do.object))
	if len(do.context) > 0 {
		sb.WriteString(fmt.Sprintf(" [context %v]", do.context))
	}
	return sb.String()
}

// key derives the hash-bucket key used by the tracer cache. Collisions are
// acceptable: exact equality is confirmed inside the bucket.
func (do DesignatedObject) key() string {
	var sb strings.Builder
	sb.WriteString(do.designator.String())
	sb.WriteByte('|')
	sb.WriteString(objectKey(do.object))
	for _, marker := range do.context {
		sb.WriteByte('|')
		sb.WriteString(objectKey(marker))
	}
	return sb.String()
}

func describeObject(object any) string {
	if object == nil {
		return "<nil>"
	}
	if pathed, ok := object.(Pathed); ok {
		return pathed.Path()
	}
	return fmt.Sprintf("%v", object)
}

func objectKey(object any) string {
	if object == nil {
		return "<nil>"
	}
	rv := reflect.ValueOf(object)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return fmt.Sprintf("%T:<nil>", object)
		}
		return fmt.Sprintf("%T:0x%x", object, rv.Pointer())
	default:
		return fmt.Sprintf("%T:%v", object, object)
	}
}

// objectsEqual applies the equality ladder shared by designated objects and
// context markers: Equaler when available, == for comparable dynamic types,
// identity of the backing pointer otherwise.
func objectsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	if eq, ok := b.(Equaler); ok {
		return eq.Equal(a)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Type().Comparable() {
		return a == b
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	default:
		return false
	}
}
