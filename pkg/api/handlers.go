package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/getmockd/todod/pkg/httputil"
	"github.com/getmockd/todod/pkg/todo"
)

// handleBanner handles GET /.
func (a *API) handleBanner(w http.ResponseWriter, r *http.Request) {
	httputil.WriteText(w, http.StatusOK, Banner)
}

// handleListTodos handles GET /todos.
func (a *API) handleListTodos(w http.ResponseWriter, r *http.Request) {
	a.writeOK(w, r, a.store.List())
}

// handleGetTodo handles GET /todos/{id}.
func (a *API) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, rerr := parseID(r)
	if rerr != nil {
		rerr.write(w)
		return
	}

	item, err := a.store.Get(id)
	if err != nil {
		a.writeStoreError(w, r, err)
		return
	}
	a.writeOK(w, r, item)
}

// handleCreateTodo handles POST /todos.
func (a *API) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	body, rerr := a.parseBody(w, r)
	if rerr != nil {
		rerr.write(w)
		return
	}
	title, completed, rerr := a.decodeCreate(body)
	if rerr != nil {
		rerr.write(w)
		return
	}

	item := a.store.Create(title, completed)
	a.log.Debug("todo created", "id", item.ID, "request_id", RequestIDFromContext(r.Context()))

	if err := httputil.WriteCreated(w, "/todos/"+strconv.Itoa(item.ID), item); err != nil {
		a.log.Error("failed to encode response", "error", err)
	}
}

// handleUpdateTodo handles PUT /todos/{id}.
// The id and body are validated before the store is consulted, so a
// malformed body is a 400 even when the id does not exist.
func (a *API) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, rerr := parseID(r)
	if rerr != nil {
		rerr.write(w)
		return
	}
	body, rerr := a.parseBody(w, r)
	if rerr != nil {
		rerr.write(w)
		return
	}
	patch, rerr := a.decodePatch(body)
	if rerr != nil {
		rerr.write(w)
		return
	}

	item, err := a.store.Update(id, patch)
	if err != nil {
		a.writeStoreError(w, r, err)
		return
	}
	a.writeOK(w, r, item)
}

// handleDeleteTodo handles DELETE /todos/{id}.
func (a *API) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, rerr := parseID(r)
	if rerr != nil {
		rerr.write(w)
		return
	}

	if err := a.store.Delete(id); err != nil {
		a.writeStoreError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// handleHealth handles GET /healthz.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeOK(w, r, HealthResponse{
		Status: "ok",
		Uptime: a.Uptime(),
		Items:  a.store.Count(),
	})
}

// handleNotFound answers any request no other route matched.
func (a *API) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, msgNotFound)
}

func (a *API) writeOK(w http.ResponseWriter, r *http.Request, data any) {
	if err := httputil.WriteOK(w, data); err != nil {
		a.log.Error("failed to encode response",
			"error", err,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
		)
	}
}

// writeStoreError maps store errors to responses. Unknown errors are logged
// and answered with a generic 500.
func (a *API) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, todo.ErrNotFound) {
		httputil.WriteNotFound(w, msgTodoNotFound)
		return
	}

	var sce todo.StatusCodeError
	if errors.As(err, &sce) && sce.StatusCode() < http.StatusInternalServerError {
		httputil.WriteError(w, sce.StatusCode(), sce.Error())
		return
	}

	a.log.Error("store operation failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	)
	httputil.WriteError(w, http.StatusInternalServerError, msgInternal)
}
