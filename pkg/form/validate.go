package form

import (
	"context"
	"fmt"
)

// Validate checks a value and returns an error message, or "" when the
// value is valid. Validators may block (network-backed checks); Control
// runs them on their own goroutines and honors no ordering between
// siblings.
type Validate[T any] func(ctx context.Context, value T) string

// runValidator invokes v, converting a panic into the node's error message.
// A failing validator is data, never a crash of the validate cycle.
func runValidator[T any](ctx context.Context, v Validate[T], value T) (msg string) {
	if v == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(r)
		}
	}()
	return v(ctx, value)
}
