package operations

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"evalgo.org/dumppublisher/internal/domain"
)

// Registry routes tasks to handlers by their task:operation URI. It
// satisfies tasks.Runner.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty operation registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register registers a handler for an operation URI
func (r *Registry) Register(operation string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[operation] = handler
}

// Supports reports whether a handler is registered for operation.
func (r *Registry) Supports(operation string) bool {
	_, ok := r.GetHandler(operation)
	return ok
}

// Handle executes a task by routing to the handler of its operation
func (r *Registry) Handle(ctx context.Context, task *domain.Task) (map[string]interface{}, error) {
	handler, exists := r.GetHandler(task.Operation)
	if !exists {
		return nil, fmt.Errorf("unknown operation: %s", task.Operation)
	}

	return handler.Handle(ctx, task)
}

// GetHandler returns the handler for an operation (useful for testing)
func (r *Registry) GetHandler(operation string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[operation]
	return handler, exists
}

// Operations lists the registered operation URIs in sorted order.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
