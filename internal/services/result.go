package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"freela/internal/core"
	"freela/internal/log"
)

// Result is what every use case returns. Err keeps the Go error for adapters that
// map error kinds; it is not serialized.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
	Err     error
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    T    `json:"data"`
		}{true, r.Data})
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, r.Error})
}

// Unwrap returns the data and the error as a Go pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.Success {
		return r.Data, nil
	}
	if r.Err != nil {
		return r.Data, r.Err
	}
	return r.Data, errors.New(r.Error)
}

// execute runs fn and turns any error or panic into a failed Result.
func execute[T any](ctx context.Context, op string, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%s: unexpected failure: %v", op, p)
			slog.ErrorContext(ctx, "Use case panicked", "op", op, "panic", p)
			res = Result[T]{Error: err.Error(), Err: err}
		}
	}()

	data, err := fn()
	if err != nil {
		logFailure(ctx, op, err)
		return Result[T]{Error: err.Error(), Err: err}
	}
	return Result[T]{Success: true, Data: data}
}

// recovered wraps fn for use on another goroutine, where the recover in execute
// cannot see a panic. The panic becomes fn's error.
func recovered(ctx context.Context, op string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%s: unexpected failure: %v", op, p)
				slog.ErrorContext(ctx, "Use case worker panicked", log.FieldComponent, log.ComponentServices, log.FieldOperation, op, "panic", p)
			}
		}()
		return fn()
	}
}

func logFailure(ctx context.Context, op string, err error) {
	kind := core.KindOf(err)
	switch kind {
	case "validation", "not_found", "invalid_state":
		slog.WarnContext(ctx, "Use case rejected", log.FieldComponent, log.ComponentServices,
			log.FieldOperation, op, "kind", kind, log.FieldError, err)
	default:
		slog.ErrorContext(ctx, "Use case failed", log.FieldComponent, log.ComponentServices,
			log.FieldOperation, op, "kind", kind, log.FieldError, err)
	}
}
