package form

import (
	"cmp"
	"context"
	"reflect"
	"regexp"
	"time"

	validate "github.com/go-playground/validator/v10"
)

// Validator factories. Each returns a Validate[T] and accepts a trailing
// optional next validator, so checks chain without a combinator:
//
//	form.Required("name is required",
//	    form.MinLength(2, "too short"))
//
// The chain short-circuits on the first non-empty message.

// runNext applies the chained validators in order.
func runNext[T any](ctx context.Context, next []Validate[T], value T) string {
	for _, n := range next {
		if n == nil {
			continue
		}
		if msg := n(ctx, value); msg != "" {
			return msg
		}
	}
	return ""
}

// Required fails on empty values: nil, "", empty slices and maps, nil
// pointers, and zero time.Time. Numeric zero and false are not empty.
func Required[T any](msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if isEmpty(value) {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// Custom fails when pred returns false.
func Custom[T any](pred func(T) bool, msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if !pred(value) {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// MinLength fails when the string has fewer than n runes.
// Empty strings pass; Required handles those.
func MinLength(n int, msg string, next ...Validate[string]) Validate[string] {
	return func(ctx context.Context, value string) string {
		if value != "" && len([]rune(value)) < n {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// MaxLength fails when the string has more than n runes.
func MaxLength(n int, msg string, next ...Validate[string]) Validate[string] {
	return func(ctx context.Context, value string) string {
		if len([]rune(value)) > n {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// Min fails when the value is below bound.
func Min[T cmp.Ordered](bound T, msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if value < bound {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// Max fails when the value is above bound.
func Max[T cmp.Ordered](bound T, msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if value > bound {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// MinTime fails when the time is before bound. Zero times pass.
func MinTime(bound time.Time, msg string, next ...Validate[time.Time]) Validate[time.Time] {
	return func(ctx context.Context, value time.Time) string {
		if !value.IsZero() && value.Before(bound) {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// MaxTime fails when the time is after bound. Zero times pass.
func MaxTime(bound time.Time, msg string, next ...Validate[time.Time]) Validate[time.Time] {
	return func(ctx context.Context, value time.Time) string {
		if !value.IsZero() && value.After(bound) {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// Pattern fails when the string does not match the regular expression.
// The pattern must compile; like regexp.MustCompile, a bad pattern panics
// at construction. Empty strings pass; Required handles those.
func Pattern(pattern string, msg string, next ...Validate[string]) Validate[string] {
	re := regexp.MustCompile(pattern)
	return func(ctx context.Context, value string) string {
		if value != "" && !re.MatchString(value) {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// Equals fails when the value differs from want.
func Equals[T comparable](want T, msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if value != want {
			return msg
		}
		return runNext(ctx, next, value)
	}
}

// tagValidator backs FromTag. The validator instance is safe for
// concurrent use and caches compiled tag expressions.
var tagValidator = validate.New()

// FromTag bridges a go-playground/validator tag expression (for example
// "required,email" or "min=3,max=64") into a Validate. When msg is empty,
// the underlying validation error text is used.
func FromTag[T any](tag string, msg string, next ...Validate[T]) Validate[T] {
	return func(ctx context.Context, value T) string {
		if err := tagValidator.VarCtx(ctx, value, tag); err != nil {
			if msg != "" {
				return msg
			}
			return err.Error()
		}
		return runNext(ctx, next, value)
	}
}

// isEmpty reports whether value counts as unset for Required.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case time.Time:
		return v.IsZero()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
