package http

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/todo-list-api/todo-list-api/internal/todos/domain"
)

// maxBodyBytes caps request bodies at 100 KiB.
const maxBodyBytes = 100 << 10

// Store is the persistence the handlers need.
type Store interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, req domain.CreateTodoRequest) (*domain.Todo, error)
	Get(ctx context.Context, id string) (*domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Handler bundles the dependencies for todo HTTP endpoints.
type Handler struct {
	store  Store
	logger *log.Logger
}

func New(store Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{store: store, logger: logger}
}
