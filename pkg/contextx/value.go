package contextx

import (
	"context"
	"fmt"
)

// key различает значения контекста по их типу.
type key[T any] struct{}

func withValue[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, key[T]{}, v)
}

func valueFrom[T any](ctx context.Context, name string) (T, error) {
	v, ok := ctx.Value(key[T]{}).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return v, nil
}
