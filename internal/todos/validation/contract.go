// Package validation checks todo request bodies against JSON Schema contracts
// before anything reaches the store.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const createTodoSchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"done": {"type": "boolean"}
	}
}`

const updateTodoSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"done": {"type": "boolean"}
	}
}`

// Issue describes one failed constraint.
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error is returned when a body does not satisfy its contract.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if len(issue.Path) == 0 {
			msgs = append(msgs, issue.Message)
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(issue.Path, "."), issue.Message))
	}
	return "invalid body: " + strings.Join(msgs, "; ")
}

// Contract is a compiled schema for one operation's request body.
type Contract struct {
	name   string
	schema *jsonschema.Schema
}

// MustCompile compiles src and panics if it is not a valid schema.
func MustCompile(name, src string) *Contract {
	c, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return c
}

func Compile(name, src string) (*Contract, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return &Contract{name: name, schema: schema}, nil
}

// Validate decodes body and checks it against the contract. An empty body is
// treated as an empty object. Any failure is returned as *Error.
func (c *Contract) Validate(body []byte) error {
	doc, err := decode(body)
	if err != nil {
		return &Error{Issues: []Issue{{
			Code:    "invalid_json",
			Path:    []string{},
			Message: err.Error(),
		}}}
	}

	if err := c.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("validate %s: %w", c.name, err)
		}
		out := &Error{}
		collectIssues(out, ve)
		return out
	}

	return nil
}

var (
	createContract = MustCompile("todo-create.json", createTodoSchema)
	updateContract = MustCompile("todo-update.json", updateTodoSchema)
)

func decode(body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("malformed JSON: unexpected data after top-level value")
	}
	return doc, nil
}

func collectIssues(out *Error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		out.Issues = append(out.Issues, toIssue(err))
		return
	}

	for _, cause := range err.Causes {
		collectIssues(out, cause)
	}
}

func toIssue(err *jsonschema.ValidationError) Issue {
	code := keyword(err.KeywordLocation)
	path := pointerToPath(err.InstanceLocation)

	// "required" reports against the parent object; point at the missing field instead.
	if code == "required" {
		if names := quoted(err.Message); len(names) > 0 {
			path = append(path, names[0])
		}
	}

	return Issue{Code: code, Path: path, Message: err.Message}
}

func keyword(location string) string {
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

func pointerToPath(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return []string{}
	}

	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts
}

// quoted extracts 'single-quoted' names from a validator message.
func quoted(msg string) []string {
	var out []string
	for {
		start := strings.IndexByte(msg, '\'')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(msg[start+1:], '\'')
		if end < 0 {
			return out
		}
		out = append(out, msg[start+1:start+1+end])
		msg = msg[start+end+2:]
	}
}
