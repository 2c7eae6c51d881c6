package core

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	cols := []string{"a", "b"}
	prev := Table{{"a": "1", "b": "x"}, {"a": "2", "b": "y"}}
	next := Table{{"a": "1", "b": "z"}, {"a": "3", "b": "w"}}

	got := Diff(prev, next, cols)
	want := []CellChange{
		{Row: 0, Column: "b", OldValue: "x", NewValue: "z"},
		{Row: 1, Column: "a", OldValue: "2", NewValue: "3"},
		{Row: 1, Column: "b", OldValue: "y", NewValue: "w"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff = %+v, want %+v", got, want)
	}

	if d := Diff(prev, prev.Clone(), cols); d != nil {
		t.Errorf("Diff of equal tables = %+v, want nil", d)
	}
}

func TestDiff_IgnoresUnlistedColumns(t *testing.T) {
	prev := Table{{"a": "1", "hidden": "x"}}
	next := Table{{"a": "1", "hidden": "y"}}

	if d := Diff(prev, next, []string{"a"}); len(d) != 0 {
		t.Errorf("Diff = %+v, want none", d)
	}
}

func TestEqual(t *testing.T) {
	cols := []string{"a"}
	a := Table{{"a": "1"}}

	if !Equal(a, a.Clone(), cols) {
		t.Error("clone should be equal")
	}
	if Equal(a, Table{{"a": "2"}}, cols) {
		t.Error("different values reported equal")
	}
	if Equal(a, Table{{"a": "1"}, {"a": "1"}}, cols) {
		t.Error("different lengths reported equal")
	}
}

func TestClone_Independent(t *testing.T) {
	orig := Table{{"a": "1"}}
	cp := orig.Clone()
	cp[0]["a"] = "2"

	if orig[0]["a"] != "1" {
		t.Error("Clone shares row maps")
	}
	if Table(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
