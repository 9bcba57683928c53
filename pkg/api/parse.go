package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/getmockd/todod/pkg/httputil"
	"github.com/getmockd/todod/pkg/todo"
	"github.com/getmockd/todod/pkg/validation"
)

// requestError is a client error detected while parsing a request.
type requestError struct {
	status  int
	message string
	details string
}

func (e *requestError) write(w http.ResponseWriter) {
	httputil.WriteErrorWithDetails(w, e.status, e.message, e.details)
}

func badRequest(message, details string) *requestError {
	return &requestError{status: http.StatusBadRequest, message: message, details: details}
}

// parseID reads the {id} path value. Only unsigned decimal digits are accepted.
func parseID(r *http.Request) (int, *requestError) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, badRequest(msgInvalidID, "id is required")
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, badRequest(msgInvalidID, fmt.Sprintf("id %q is not a non-negative integer", raw))
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(msgInvalidID, fmt.Sprintf("id %q is out of range", raw))
	}
	return id, nil
}

// parseBody reads a size-capped request body that must hold exactly one JSON object.
func (a *API) parseBody(w http.ResponseWriter, r *http.Request) (map[string]any, *requestError) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				message: msgPayloadTooLarge,
				details: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
			}
		}
		return nil, badRequest(msgInvalidJSON, err.Error())
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, badRequest(msgInvalidJSON, "request body is empty")
	}
	// encoding/json would replace invalid sequences with U+FFFD.
	if !utf8.Valid(data) {
		return nil, badRequest(msgInvalidJSON, "request body is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, badRequest(msgInvalidJSON, err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, badRequest(msgInvalidJSON, "unexpected data after JSON value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, badRequest(msgInvalidJSON, "request body must be a JSON object")
	}
	return obj, nil
}

// checkBody runs a schema validator and converts the first failure to a request error.
func checkBody(v *validation.BodyValidator, body map[string]any) *requestError {
	result := v.Validate(body)
	fe := result.First()
	if fe == nil {
		return nil
	}
	switch {
	case fe.Code == validation.ErrCodeRequired:
		return badRequest(fmt.Sprintf("Missing field '%s'", fe.Field), "")
	case fe.Field != "":
		return badRequest(fmt.Sprintf("Invalid field '%s'", fe.Field), fe.Message)
	default:
		return badRequest(msgInvalidJSON, fe.Message)
	}
}

// decodeCreate extracts the fields of a create request. Unknown keys are ignored.
func (a *API) decodeCreate(body map[string]any) (string, bool, *requestError) {
	if rerr := checkBody(a.createValidator, body); rerr != nil {
		return "", false, rerr
	}
	title, _ := body["title"].(string)
	completed, _ := body["completed"].(bool)
	return title, completed, nil
}

// decodePatch extracts the fields of an update request. Unknown keys are ignored.
func (a *API) decodePatch(body map[string]any) (todo.Patch, *requestError) {
	if rerr := checkBody(a.updateValidator, body); rerr != nil {
		return todo.Patch{}, rerr
	}
	var patch todo.Patch
	if title, ok := body["title"].(string); ok {
		patch.Title = &title
	}
	if completed, ok := body["completed"].(bool); ok {
		patch.Completed = &completed
	}
	return patch, nil
}
