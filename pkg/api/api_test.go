package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/todod/pkg/httputil"
	"github.com/getmockd/todod/pkg/metrics"
	"github.com/getmockd/todod/pkg/todo"
	"github.com/getmockd/todod/pkg/validation"
)

// =============================================================================
// Helpers
// =============================================================================

func newTestAPI(t *testing.T, opts ...Option) (*API, *todo.Store) {
	t.Helper()
	store := todo.NewStore()
	a, err := New(store, opts...)
	require.NoError(t, err)
	return a, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) todo.Item {
	t.Helper()
	var item todo.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item), rec.Body.String())
	return item
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	a, _ := newTestAPI(t)

	assert.Equal(t, int64(DefaultMaxBodyBytes), a.maxBodyBytes)
	assert.Equal(t, DefaultReadTimeout, a.readTimeout)
	assert.Equal(t, DefaultWriteTimeout, a.writeTimeout)
	assert.Equal(t, DefaultShutdownTimeout, a.shutdownTimeout)
	assert.Empty(t, a.corsOrigins)
	assert.NotNil(t, a.registry)
	assert.NotNil(t, a.OpenAPI())
	assert.GreaterOrEqual(t, a.Uptime(), int64(0))
}

func TestOptions(t *testing.T) {
	reg := metrics.NewRegistry()
	a, _ := newTestAPI(t,
		WithLogger(nil),
		WithMetricsRegistry(reg),
		WithMaxBodyBytes(0),
		WithMaxBodyBytes(64),
		WithCORSOrigins("https://example.com"),
		WithTimeouts(time.Second, 0, 3*time.Second),
		WithVersion("1.2.3"),
	)

	assert.NotNil(t, a.log)
	assert.Same(t, reg, a.registry)
	assert.Equal(t, int64(64), a.maxBodyBytes)
	assert.Equal(t, []string{"https://example.com"}, a.corsOrigins)
	assert.Equal(t, time.Second, a.readTimeout)
	assert.Equal(t, DefaultWriteTimeout, a.writeTimeout)
	assert.Equal(t, 3*time.Second, a.shutdownTimeout)
	assert.Equal(t, "1.2.3", a.version)
}

// =============================================================================
// Endpoint Behaviour
// =============================================================================

func TestScenario_CreateUpdateDeleteGet(t *testing.T) {
	a, _ := newTestAPI(t)
	h := a.Handler()

	rec := do(t, h, http.MethodPost, "/todos", `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/todos/1", rec.Header().Get("Location"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, todo.Item{ID: 1, Title: "buy milk", Completed: false}, decodeItem(t, rec))

	rec = do(t, h, http.MethodPut, "/todos/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, todo.Item{ID: 1, Title: "buy milk", Completed: true}, decodeItem(t, rec))

	rec = do(t, h, http.MethodDelete, "/todos/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Todo not found", decodeError(t, rec).Error)
}

func TestBanner(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a.Handler(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Banner, rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestUnknownRoutes(t *testing.T) {
	a, _ := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPost, "/"},
		{http.MethodPatch, "/todos/1"},
		{http.MethodPost, "/todos/1"},
	} {
		rec := do(t, a.Handler(), tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Not found", decodeError(t, rec).Error)
	}
}

func TestListTodos(t *testing.T) {
	a, store := newTestAPI(t)

	rec := do(t, a.Handler(), http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	store.Create("a", false)
	store.Create("b", true)

	rec = do(t, a.Handler(), http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"title":"a","completed":false},{"id":2,"title":"b","completed":true}]`, rec.Body.String())
}

func TestGetTodo(t *testing.T) {
	a, store := newTestAPI(t)
	store.Create("first", false)

	rec := do(t, a.Handler(), http.MethodGet, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"first","completed":false}`, rec.Body.String())
}

func TestInvalidIDs(t *testing.T) {
	a, _ := newTestAPI(t)

	for _, path := range []string{"/todos/abc", "/todos/-1", "/todos/1.5", "/todos/99999999999999999999999"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := do(t, a.Handler(), method, path, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", method, path)
			resp := decodeError(t, rec)
			assert.Equal(t, "Invalid id", resp.Error)
			assert.NotEmpty(t, resp.Details)
		}
		rec := do(t, a.Handler(), http.MethodPut, path, `{"completed":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "PUT %s", path)
	}

	// Zero is well-formed but never allocated.
	rec := do(t, a.Handler(), http.MethodGet, "/todos/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTodo_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantError   string
		wantDetails bool
	}{
		{name: "missing title", body: `{}`, wantError: "Missing field 'title'"},
		{name: "missing title with other fields", body: `{"completed":true}`, wantError: "Missing field 'title'"},
		{name: "malformed", body: `{"title":`, wantError: "Invalid JSON", wantDetails: true},
		{name: "not json", body: `buy milk`, wantError: "Invalid JSON", wantDetails: true},
		{name: "empty body", body: ``, wantError: "Invalid JSON", wantDetails: true},
		{name: "array", body: `[{"title":"x"}]`, wantError: "Invalid JSON", wantDetails: true},
		{name: "null", body: `null`, wantError: "Invalid JSON", wantDetails: true},
		{name: "trailing data", body: `{"title":"x"} {"title":"y"}`, wantError: "Invalid JSON", wantDetails: true},
		{name: "invalid utf-8 in title", body: "{\"title\":\"\xff\"}", wantError: "Invalid JSON", wantDetails: true},
		{name: "invalid utf-8 outside strings", body: "{\"title\":\"x\"}\xc3", wantError: "Invalid JSON", wantDetails: true},
		{name: "title number", body: `{"title":42}`, wantError: "Invalid field 'title'", wantDetails: true},
		{name: "title null", body: `{"title":null}`, wantError: "Invalid field 'title'", wantDetails: true},
		{name: "title empty", body: `{"title":""}`, wantError: "Invalid field 'title'", wantDetails: true},
		{name: "completed string", body: `{"title":"x","completed":"yes"}`, wantError: "Invalid field 'completed'", wantDetails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store := newTestAPI(t)

			rec := do(t, a.Handler(), http.MethodPost, "/todos", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantDetails {
				assert.NotEmpty(t, resp.Details)
			}
			assert.Zero(t, store.Count(), "rejected request must not create an item")
		})
	}
}

func TestCreateTodo_IgnoresClientFields(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a.Handler(), http.MethodPost, "/todos", `{"id":99,"title":"x","completed":true,"extra":[1]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, todo.Item{ID: 1, Title: "x", Completed: true}, decodeItem(t, rec))
}

func TestUpdateTodo(t *testing.T) {
	t.Run("title only keeps completed", func(t *testing.T) {
		a, store := newTestAPI(t)
		store.Create("old", true)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/1", `{"title":"new"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, todo.Item{ID: 1, Title: "new", Completed: true}, decodeItem(t, rec))
	})

	t.Run("empty object changes nothing", func(t *testing.T) {
		a, store := newTestAPI(t)
		store.Create("same", false)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/1", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, todo.Item{ID: 1, Title: "same", Completed: false}, decodeItem(t, rec))
	})

	t.Run("client id is ignored", func(t *testing.T) {
		a, store := newTestAPI(t)
		store.Create("x", false)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/1", `{"id":5,"completed":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decodeItem(t, rec).ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		a, _ := newTestAPI(t)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/7", `{"completed":true}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid json on unknown id is a bad request", func(t *testing.T) {
		a, _ := newTestAPI(t)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/7", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON", decodeError(t, rec).Error)
	})

	t.Run("invalid utf-8 is rejected without changes", func(t *testing.T) {
		a, store := newTestAPI(t)
		store.Create("keep", false)

		rec := do(t, a.Handler(), http.MethodPut, "/todos/1", "{\"title\":\"bad \xfe\xff\"}")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Invalid JSON", resp.Error)
		assert.Contains(t, resp.Details, "UTF-8")

		item, err := store.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "keep", item.Title)
	})

	t.Run("wrong types are rejected without changes", func(t *testing.T) {
		a, store := newTestAPI(t)
		store.Create("keep", false)

		for _, body := range []string{`{"completed":"true"}`, `{"title":""}`, `{"title":1}`} {
			rec := do(t, a.Handler(), http.MethodPut, "/todos/1", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}

		item, err := store.Get(1)
		require.NoError(t, err)
		assert.Equal(t, todo.Item{ID: 1, Title: "keep", Completed: false}, item)
	})
}

func TestDeleteTodo_Twice(t *testing.T) {
	a, store := newTestAPI(t)
	store.Create("temp", false)

	assert.Equal(t, http.StatusNoContent, do(t, a.Handler(), http.MethodDelete, "/todos/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, a.Handler(), http.MethodDelete, "/todos/1", "").Code)
}

func TestIDsNotReusedOverHTTP(t *testing.T) {
	a, _ := newTestAPI(t)
	h := a.Handler()

	do(t, h, http.MethodPost, "/todos", `{"title":"a"}`)
	do(t, h, http.MethodDelete, "/todos/1", "")

	rec := do(t, h, http.MethodPost, "/todos", `{"title":"b"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/todos/2", rec.Header().Get("Location"))
}

func TestPayloadTooLarge(t *testing.T) {
	a, store := newTestAPI(t, WithMaxBodyBytes(32))

	body := fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 100))
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/todos"},
		{http.MethodPut, "/todos/1"},
	} {
		rec := do(t, a.Handler(), tc.method, tc.path, body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "Payload too large", decodeError(t, rec).Error)
	}
	assert.Zero(t, store.Count())
}

func TestConcurrentCreates(t *testing.T) {
	const n = 100
	a, store := newTestAPI(t)
	h := a.Handler()

	locations := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(fmt.Sprintf(`{"title":"t%d"}`, i)))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			locations <- rec.Header().Get("Location")
		}(i)
	}
	wg.Wait()
	close(locations)

	seen := make(map[string]bool)
	for loc := range locations {
		assert.False(t, seen[loc], "duplicate location %s", loc)
		seen[loc] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, store.Count())
}

func TestHealth(t *testing.T) {
	a, store := newTestAPI(t)
	store.Create("a", false)
	store.Create("b", false)

	rec := do(t, a.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Items)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))
}

func TestWriteStoreError_Internal(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	a.writeStoreError(rec, httptest.NewRequest(http.MethodGet, "/todos/1", nil), errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

// =============================================================================
// OpenAPI
// =============================================================================

func TestOpenAPIEndpoints(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a.Handler(), http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/todos/{id}")

	rec = do(t, a.Handler(), http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, openapiYAML, rec.Body.Bytes())
}

func TestResponsesMatchOpenAPIDocument(t *testing.T) {
	a, _ := newTestAPI(t, WithMaxBodyBytes(64))
	v, err := validation.NewOpenAPIValidator(a.OpenAPI())
	require.NoError(t, err)

	steps := []struct {
		method, path, body string
		wantStatus         int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/todos", "", http.StatusOK},
		{http.MethodPost, "/todos", `{"title":"buy milk"}`, http.StatusCreated},
		{http.MethodPost, "/todos", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/todos", `{"title":"` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge},
		{http.MethodGet, "/todos", "", http.StatusOK},
		{http.MethodGet, "/todos/1", "", http.StatusOK},
		{http.MethodGet, "/todos/abc", "", http.StatusBadRequest},
		{http.MethodPut, "/todos/1", `{"completed":true}`, http.StatusOK},
		{http.MethodPut, "/todos/9", `{"completed":true}`, http.StatusNotFound},
		{http.MethodDelete, "/todos/1", "", http.StatusNoContent},
		{http.MethodGet, "/todos/1", "", http.StatusNotFound},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/openapi.json", "", http.StatusOK},
	}

	for _, step := range steps {
		rec := do(t, a.Handler(), step.method, step.path, step.body)
		require.Equal(t, step.wantStatus, rec.Code, "%s %s: %s", step.method, step.path, rec.Body.String())

		req := httptest.NewRequest(step.method, step.path, nil)
		result := v.ValidateResponse(req, rec.Code, rec.Header(), rec.Body.Bytes())
		assert.True(t, result.Valid, "%s %s: %v", step.method, step.path, result.Errors)
	}
}

// =============================================================================
// Server Lifecycle
// =============================================================================

func TestServe_ShutsDownOnCancel(t *testing.T) {
	a, _ := newTestAPI(t, WithTimeouts(0, 0, 2*time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Banner, string(body))
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	a, _ := newTestAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := a.Run(ctx, "127.0.0.1:99999")
	assert.Error(t, err)
}
