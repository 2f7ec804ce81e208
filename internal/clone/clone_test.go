package clone

import (
	"reflect"
	"testing"
)

func TestCloneNestedMap(t *testing.T) {
	original := map[string]any{
		"outer": map[string]any{
			"inner": []any{1, 2, 3},
		},
	}

	cloned := Clone(original)
	if !reflect.DeepEqual(original, cloned) {
		t.Fatalf("clone mismatch:\nwant: %#v\n got: %#v", original, cloned)
	}

	cloned["outer"].(map[string]any)["inner"].([]any)[0] = 99
	if original["outer"].(map[string]any)["inner"].([]any)[0] != 1 {
		t.Fatalf("mutation leaked into original")
	}
}

func TestCloneSlice(t *testing.T) {
	original := []map[string]int{{"a": 1}}
	cloned := Clone(original)
	cloned[0]["a"] = 2
	if original[0]["a"] != 1 {
		t.Fatalf("mutation leaked into original slice element")
	}
}

func TestClonePointer(t *testing.T) {
	type box struct {
		Value int
	}
	original := &box{Value: 7}
	cloned := Clone(original)
	if cloned == original {
		t.Fatalf("pointers should be reallocated")
	}
	cloned.Value = 8
	if original.Value != 7 {
		t.Fatalf("mutation leaked through pointer")
	}
}

func TestCloneStructSkipsUnexportedFields(t *testing.T) {
	type mixed struct {
		Exported   string
		unexported string
	}
	original := mixed{Exported: "keep", unexported: "drop"}
	cloned := Clone(original)
	if cloned.Exported != "keep" {
		t.Fatalf("exported field lost: %+v", cloned)
	}
	if cloned.unexported != "" {
		t.Fatalf("unexported fields cannot be set through reflection, got %q", cloned.unexported)
	}
}

func TestCloneNilValues(t *testing.T) {
	var m map[string]int
	if Clone(m) != nil {
		t.Fatalf("nil map should clone to nil")
	}
	var s []int
	if Clone(s) != nil {
		t.Fatalf("nil slice should clone to nil")
	}
	var p *int
	if Clone(p) != nil {
		t.Fatalf("nil pointer should clone to nil")
	}
	if Clone[any](nil) != nil {
		t.Fatalf("nil interface should clone to nil")
	}
}

func TestCloneScalars(t *testing.T) {
	if Clone(42) != 42 {
		t.Fatalf("scalar clone changed value")
	}
	if Clone("text") != "text" {
		t.Fatalf("string clone changed value")
	}
}
