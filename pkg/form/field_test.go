package form

import (
	"context"
	"testing"
)

type testAddress struct {
	Street string
	City   string
}

type testProfile struct {
	Name    string
	Address testAddress
}

func TestFieldStructLens(t *testing.T) {
	f := New(testProfile{Name: "Ada"})

	name := NewField(FieldConfig[string]{Control: f, Name: "name"})
	if name.Value() != "Ada" {
		t.Fatalf("field should project the parent value, got %q", name.Value())
	}

	name.SetValue("Grace")
	if got := f.Value().Name; got != "Grace" {
		t.Errorf("write should flow up through the lens, parent has %q", got)
	}
	if name.Value() != "Grace" {
		t.Errorf("field should read back the new value, got %q", name.Value())
	}
	if !f.IsDirty() {
		t.Error("parent should be dirty after a child write")
	}
}

func TestFieldNestedLens(t *testing.T) {
	f := New(testProfile{Address: testAddress{City: "London"}})

	address := NewField(FieldConfig[testAddress]{Control: f, Name: "address"})
	city := NewField(FieldConfig[string]{Control: address, Name: "city"})

	if city.Value() != "London" {
		t.Fatalf("nested projection = %q, want %q", city.Value(), "London")
	}

	city.SetValue("Oslo")
	if got := f.Value().Address.City; got != "Oslo" {
		t.Errorf("nested write should reach the root, got %q", got)
	}
	// Sibling data survives the shallow copies.
	if got := f.Value().Address.Street; got != "" {
		t.Errorf("street should be untouched, got %q", got)
	}

	if !address.IsDirty() || !f.IsDirty() {
		t.Error("every ancestor on the path should be dirty")
	}
}

func TestFieldMapLens(t *testing.T) {
	f := New(map[string]any{"email": "x@example.com"})

	email := NewField(FieldConfig[string]{Control: f, Name: "email"})
	if email.Value() != "x@example.com" {
		t.Fatalf("map projection = %q", email.Value())
	}

	before := f.Value()
	email.SetValue("y@example.com")
	after := f.Value()

	if after["email"] != "y@example.com" {
		t.Errorf("map write = %v", after["email"])
	}
	if identical(any(before), any(after)) {
		t.Error("the lens must replace the parent map, not mutate it")
	}
	if before["email"] != "x@example.com" {
		t.Error("previous value was mutated in place")
	}
}

func TestFieldUpdater(t *testing.T) {
	f := New(map[string]any{"count": 1})
	count := NewField(FieldConfig[int]{Control: f, Name: "count"})

	count.Update(func(n int) int { return n + 10 })
	if count.Value() != 11 {
		t.Errorf("functional update = %d, want 11", count.Value())
	}
}

func TestFieldRegistration(t *testing.T) {
	f := New(map[string]any{"name": ""})
	name := NewField(FieldConfig[string]{
		Control:  f,
		Name:     "name",
		Validate: Required[string]("required"),
	})

	if _, ok := f.Fields()["name"]; !ok {
		t.Fatal("field should register itself on mount")
	}

	if f.Validate(context.Background()) {
		t.Fatal("root validation should fan out to the mounted field")
	}
	if name.Error() != "required" {
		t.Errorf("field error = %q", name.Error())
	}

	name.Unmount()
	if _, ok := f.Fields()["name"]; ok {
		t.Fatal("unmounted field should leave the tree")
	}
	if !f.Validate(context.Background()) {
		t.Error("unmounted field must be invisible to validation")
	}
}

func TestFieldRemountFreshState(t *testing.T) {
	f := New(map[string]any{"name": ""})

	first := NewField(FieldConfig[string]{Control: f, Name: "name"})
	first.SetValue("typed")
	first.Blur()
	if !first.IsDirty() || !first.IsTouched() {
		t.Fatal("first binding should be dirty and touched")
	}
	first.Unmount()

	// A remount snapshots a fresh initial value; prior state is gone.
	second := NewField(FieldConfig[string]{Control: f, Name: "name"})
	if second.Value() != "typed" {
		t.Fatalf("remounted field value = %q", second.Value())
	}
	if second.IsDirty() {
		t.Error("remounted field should be pristine against its new snapshot")
	}
	if second.IsTouched() {
		t.Error("remounted field should not be touched")
	}
}

func TestFieldTouched(t *testing.T) {
	f := New(map[string]any{"name": ""})
	name := NewField(FieldConfig[string]{Control: f, Name: "name"})

	if name.IsTouched() || name.TouchCount() != 0 {
		t.Fatal("fresh field should be untouched")
	}

	name.Blur()
	name.Blur()
	if name.TouchCount() != 2 {
		t.Errorf("touch count = %d, want 2", name.TouchCount())
	}
	if !name.IsTouched() {
		t.Error("field should be touched after a blur")
	}
}

func TestFieldValidatedResetIsLocal(t *testing.T) {
	f := New(map[string]any{"a": "", "b": ""})
	a := NewField(FieldConfig[string]{Control: f, Name: "a"})
	b := NewField(FieldConfig[string]{Control: f, Name: "b"})

	f.Validate(context.Background())
	if !a.IsValidated() || !b.IsValidated() {
		t.Fatal("both fields should be validated")
	}

	a.SetValue("x")
	if a.IsValidated() {
		t.Error("written field should reset its validated flag")
	}
	if !b.IsValidated() {
		t.Error("sibling's validated flag must not be cascaded away")
	}
	if f.IsValidated() {
		t.Error("ancestor value changed, so its own flag resets")
	}
}

func TestFieldUnmountIdempotent(t *testing.T) {
	f := New(map[string]any{"name": ""})
	name := NewField(FieldConfig[string]{Control: f, Name: "name"})

	name.Unmount()
	name.Unmount()

	// A replacement binding at the same key must survive stale unmounts.
	repl := NewField(FieldConfig[string]{Control: f, Name: "name"})
	name.Unmount()
	if _, ok := f.Fields()["name"]; !ok {
		t.Error("stale unmount removed the replacement binding")
	}
	repl.Unmount()
}
