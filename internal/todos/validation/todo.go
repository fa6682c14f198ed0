package validation

import (
	"encoding/json"
	"fmt"

	"github.com/todo-list-api/todo-list-api/internal/todos/domain"
)

type createBody struct {
	Title string `json:"title"`
	Done  *bool  `json:"done"`
}

type updateBody struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// ParseCreate validates a create body. title is required, done defaults to false.
func ParseCreate(body []byte) (domain.CreateTodoRequest, error) {
	if err := createContract.Validate(body); err != nil {
		return domain.CreateTodoRequest{}, err
	}

	var b createBody
	if err := unmarshal(body, &b); err != nil {
		return domain.CreateTodoRequest{}, err
	}

	req := domain.CreateTodoRequest{Title: b.Title}
	if b.Done != nil {
		req.Done = *b.Done
	}
	return req, nil
}

// ParseUpdate validates a partial update body. Both fields are optional.
func ParseUpdate(body []byte) (domain.TodoPatch, error) {
	if err := updateContract.Validate(body); err != nil {
		return domain.TodoPatch{}, err
	}

	var b updateBody
	if err := unmarshal(body, &b); err != nil {
		return domain.TodoPatch{}, err
	}

	return domain.TodoPatch{Title: b.Title, Done: b.Done}, nil
}

func unmarshal(body []byte, v any) error {
	doc, err := decode(body)
	if err != nil {
		return err
	}
	// Re-encode the already validated document so an empty body decodes as {}.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode body: %w", err)
	}
	return json.Unmarshal(raw, v)
}
