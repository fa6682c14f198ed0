package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/todo-list-api/todo-list-api/internal/todos/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0
);
`

// TodoRepository provides persistence operations for todos.
// Each method issues exactly one statement against the database.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Init creates the todos table if it does not exist. It must run before the
// repository serves any other call.
func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

// List returns every todo, most recently inserted first.
func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	const q = `SELECT id, title, done FROM todos ORDER BY rowid DESC;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Todo, 0, 16)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return out, nil
}

// Create inserts a todo under a fresh UUID and returns the stored row.
func (r *TodoRepository) Create(ctx context.Context, req domain.CreateTodoRequest) (*domain.Todo, error) {
	if req.Title == "" {
		return nil, domain.ErrInvalidTitle
	}

	const q = `
INSERT INTO todos (id, title, done)
VALUES (?, ?, ?)
RETURNING id, title, done;
`
	t, err := scanTodo(r.db.QueryRowContext(ctx, q, uuid.NewString(), req.Title, boolToInt(req.Done)))
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return t, nil
}

// Get returns the todo with the given id or domain.ErrNotFound.
func (r *TodoRepository) Get(ctx context.Context, id string) (*domain.Todo, error) {
	const q = `SELECT id, title, done FROM todos WHERE id = ?;`

	t, err := scanTodo(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// Update applies the non-nil fields of patch and returns the resulting row.
// An empty patch leaves the row untouched and still returns it.
func (r *TodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	var title, done any
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, domain.ErrInvalidTitle
		}
		title = *patch.Title
	}
	if patch.Done != nil {
		done = boolToInt(*patch.Done)
	}

	const q = `
UPDATE todos
SET title = COALESCE(?, title), done = COALESCE(?, done)
WHERE id = ?
RETURNING id, title, done;
`
	t, err := scanTodo(r.db.QueryRowContext(ctx, q, title, done, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

// Delete removes the todo and reports whether a row was actually deleted.
func (r *TodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM todos WHERE id = ?;`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (*domain.Todo, error) {
	var (
		t    domain.Todo
		done int64
	)
	if err := s.Scan(&t.ID, &t.Title, &done); err != nil {
		return nil, err
	}
	t.Done = done != 0
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
