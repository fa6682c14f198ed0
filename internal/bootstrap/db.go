package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/todo-list-api/todo-list-api/config"
	"github.com/todo-list-api/todo-list-api/internal/storage/sqlite"
	"github.com/todo-list-api/todo-list-api/internal/todos/repository"
)

type DBOptions struct {
	Path   string
	InitTO time.Duration
}

// OpenStore opens the database and creates the schema. The returned store is
// ready to serve requests.
func OpenStore(ctx context.Context, opt DBOptions) (*sql.DB, *repository.TodoRepository, error) {
	if opt.InitTO == 0 {
		opt.InitTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.InitTO)
	defer cancel()

	db, err := sqlite.NewConnection(cctx, &config.DatabaseConfig{Path: opt.Path})
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}

	repo := repository.NewTodoRepository(db)
	if err := repo.Init(cctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db init: %w", err)
	}

	return db, repo, nil
}
