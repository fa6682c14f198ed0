package domain

// Todo is the single persisted entity. It is storage-agnostic: the 0/1
// representation of Done never leaves the repository.
type Todo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// CreateTodoRequest holds a validated create payload.
type CreateTodoRequest struct {
	Title string
	Done  bool
}

// TodoPatch is a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Title *string
	Done  *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Done == nil
}
