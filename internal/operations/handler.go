// Package operations implements task operation handlers.
package operations

import (
	"context"

	"evalgo.org/dumppublisher/internal/domain"
)

// Handler defines the interface for task operation handlers
type Handler interface {
	// Handle executes the operation and returns the result
	Handle(ctx context.Context, task *domain.Task) (map[string]interface{}, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, task *domain.Task) (map[string]interface{}, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, task *domain.Task) (map[string]interface{}, error) {
	return f(ctx, task)
}

// Result is a helper for building operation results
func Result() map[string]interface{} {
	return make(map[string]interface{})
}

// SetResult sets a field in the result map
func SetResult(result map[string]interface{}, key string, value interface{}) {
	result[key] = value
}
