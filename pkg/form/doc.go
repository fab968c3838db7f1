// Package form provides reactive form-state management: a tree of Control
// nodes mirroring the shape of a form's value, with value propagation
// through lenses and bottom-up aggregation of error, validity, and dirty
// state, including concurrent validators.
//
// # Overview
//
// A Form owns the root Control for the whole value. Fields project a
// Control over one key of their parent's value and register themselves in
// the parent's tree, so validation fans out over exactly the bindings that
// are currently mounted. Array fields add index-based mutation operations
// over sequence values.
//
// # Basic Usage
//
//	type Signup struct {
//	    FirstName string `form:"firstName"`
//	    LastName  string `form:"lastName"`
//	}
//
//	f := form.New(Signup{}, form.WithValidate(func(ctx context.Context, v Signup) string {
//	    if v.FirstName == v.LastName {
//	        return "first and last name must differ"
//	    }
//	    return ""
//	}))
//
//	first := form.NewField(form.FieldConfig[string]{
//	    Control:  f,
//	    Name:     "firstName",
//	    Validate: form.Required[string]("first name is required"),
//	})
//
//	first.SetValue("Ada")
//	f.HandleSubmit(ctx, onValid, onInvalid)
//
// # Validation
//
// Validators are plain functions from a value to an error message, where ""
// means valid. Factories such as Required, MinLength, Pattern, Min and Max
// compose through a trailing optional next validator. Control.Validate runs
// a node's own validator and every registered child concurrently, then
// folds the results: a node is valid only when it and all of its children
// are.
//
// # Arrays
//
// NewArrayField specializes a Field for slice values. Item bindings are
// keyed by position, so inserting or removing an element rebuilds the
// bindings at and after that index; per-item touched and validation state
// for those positions does not survive the mutation.
package form
