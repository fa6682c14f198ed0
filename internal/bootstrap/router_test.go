package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todo-list-api/todo-list-api/config"
	"github.com/todo-list-api/todo-list-api/internal/todos/domain"
)

type testServer struct {
	router *gin.Engine
	dir    string
}

func newTestServer(t *testing.T, mutate func(*config.HTTPConfig)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, store, err := OpenStore(context.Background(), DBOptions{Path: filepath.Join(dir, "data", "todos.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	httpCfg := config.HTTPConfig{
		RateLimitPerMinute: 1000,
		RateLimitBurst:     1000,
		StaticDir:          filepath.Join(dir, "public"),
		OpenAPIPath:        filepath.Join(dir, "openapi.json"),
	}
	if mutate != nil {
		mutate(&httpCfg)
	}

	router, err := BuildRouter(RouterDeps{
		HTTP:   httpCfg,
		Logger: log.New(io.Discard),
		Store:  store,
	})
	require.NoError(t, err)

	return &testServer{router: router, dir: dir}
}

func (s *testServer) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:5555"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Scenario(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(http.MethodPost, "/todos", `{"title":"Buy milk"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Todo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = s.do(http.MethodPatch, "/todos/"+created.ID, `{"done":true}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"`+created.ID+`","title":"Buy milk","done":true}`, rr.Body.String())

	rr = s.do(http.MethodDelete, "/todos/"+created.ID, "", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/todos", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRouter_InvalidCreateLeavesStoreEmpty(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(http.MethodPost, "/todos", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "invalid_body", body["error"])
	assert.NotEmpty(t, body["issues"])

	rr = s.do(http.MethodGet, "/todos", "", nil)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRouter_UnmatchedRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/nope"},
		{http.MethodPost, "/health"},
		{http.MethodPut, "/todos/abc"},
		{http.MethodDelete, "/todos"},
		{http.MethodGet, "/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := s.do(tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.JSONEq(t, `{"error":"not_found"}`, rr.Body.String())
		})
	}
}

func TestRouter_StaticFiles(t *testing.T) {
	s := newTestServer(t, nil)

	public := filepath.Join(s.dir, "public")
	require.NoError(t, os.MkdirAll(public, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>todos</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "secret.txt"), []byte("nope"), 0o644))

	rr := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>todos</h1>")

	require.NoError(t, os.WriteFile(filepath.Join(public, "app.js"), []byte("console.log(1)"), 0o644))
	rr = s.do(http.MethodGet, "/app.js", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = s.do(http.MethodHead, "/app.js", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/missing.js", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/../secret.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/app.js", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rr.Body.String())
}

func TestRouter_TrailingSlash(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(http.MethodPost, "/todos/", `{"title":"x"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Todo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "x", created.Title)

	rr = s.do(http.MethodGet, "/todos/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"`+created.ID+`","title":"x","done":false}]`, rr.Body.String())

	for _, p := range []string{"/health/", "/todos/" + created.ID + "/"} {
		rr = s.do(http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, p)
		assert.JSONEq(t, `{"error":"not_found"}`, rr.Body.String(), p)
	}
}

func TestRouter_Docs(t *testing.T) {
	openapi := `{"openapi":"3.0.0","info":{"title":"Todo List API","version":"1.0.0"},"paths":{}}`
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(openapi), 0o644))

	s := newTestServer(t, func(cfg *config.HTTPConfig) { cfg.OpenAPIPath = path })

	rr := s.do(http.MethodGet, "/docs/openapi.json", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, openapi, rr.Body.String())

	rr = s.do(http.MethodGet, "/docs", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/docs/openapi.json")
}

func TestRouter_CORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		s := newTestServer(t, nil)

		rr := s.do(http.MethodGet, "/health", "", map[string]string{"Origin": "http://frontend.test"})
		assert.Equal(t, "http://frontend.test", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origin only", func(t *testing.T) {
		s := newTestServer(t, func(cfg *config.HTTPConfig) { cfg.CORSOrigin = "http://localhost:5173" })

		rr := s.do(http.MethodGet, "/health", "", map[string]string{"Origin": "http://localhost:5173"})
		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

		rr = s.do(http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.example"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		s := newTestServer(t, nil)

		rr := s.do(http.MethodOptions, "/todos", "", map[string]string{
			"Origin":                        "http://frontend.test",
			"Access-Control-Request-Method": "PATCH",
		})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.HTTPConfig) {
		cfg.RateLimitPerMinute = 2
		cfg.RateLimitBurst = 2
	})

	for i := 0; i < 2; i++ {
		rr := s.do(http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"rate_limited"}`, rr.Body.String())
}

func TestRouter_PanicRecovery(t *testing.T) {
	var logs bytes.Buffer
	gin.SetMode(gin.TestMode)

	router, err := BuildRouter(RouterDeps{
		HTTP:   config.HTTPConfig{RateLimitPerMinute: 10, RateLimitBurst: 10},
		Logger: log.New(&logs),
		Store:  nil,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rr.Body.String())
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.Debug("hello", "port", 3000)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Contains(t, line, "port")

	assert.Equal(t, log.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, log.InfoLevel, parseLogLevel("bogus"))
	assert.Equal(t, log.TextFormatter, parseLogFormatter("text"))
	assert.Equal(t, log.JSONFormatter, parseLogFormatter(""))
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetGinMode("development")
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
