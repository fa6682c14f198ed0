package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/todo-list-api/todo-list-api/internal/api/http"
	"github.com/todo-list-api/todo-list-api/internal/api/http/middleware"
	"github.com/todo-list-api/todo-list-api/internal/todos/domain"
	"github.com/todo-list-api/todo-list-api/internal/todos/validation"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	req, err := validation.ParseCreate(body)
	if err != nil {
		h.rejectBody(c, err)
		return
	}

	t, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create todo", err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpapi.NotFound(c)
			return
		}
		h.fail(c, "get todo", err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	body, ok := h.readBody(c)
	if !ok {
		return
	}

	patch, err := validation.ParseUpdate(body)
	if err != nil {
		h.rejectBody(c, err)
		return
	}
	if patch.IsEmpty() {
		h.logger.Debug("empty patch, returning current todo", "request_id", middleware.GetRequestID(c.Request.Context()), "id", id)
	}

	t, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpapi.NotFound(c)
			return
		}
		h.fail(c, "update todo", err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete todo", err)
		return
	}
	if !deleted {
		httpapi.NotFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		return nil, true
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpapi.PayloadTooLarge(c)
			return nil, false
		}
		httpapi.InvalidBody(c, []validation.Issue{{
			Code:    "unreadable_body",
			Path:    []string{},
			Message: err.Error(),
		}})
		return nil, false
	}
	return body, true
}

func (h *Handler) rejectBody(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		httpapi.InvalidBody(c, verr.Issues)
		return
	}
	h.fail(c, "validate body", err)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", "request_id", middleware.GetRequestID(c.Request.Context()), "err", err)
	httpapi.Internal(c)
}
