package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"equipstore/internal/config"
	"equipstore/internal/http/handlers"
	"equipstore/internal/repos"
)

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	db   *sqlx.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", Env: "test", JWTSecret: "test-secret", TokenTTL: time.Hour, CacheTTL: time.Minute}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg, nil, nil)
	return &testApp{app: handlers.NewApp(cfg, deps), deps: deps, db: db}
}

// token signs a bearer token for a seeded user without going through the
// rate-limited login route.
func (a *testApp) token(t *testing.T, userID string) string {
	t.Helper()
	u, err := repos.NewUserRepo(a.db).ByID(context.Background(), userID)
	require.NoError(t, err)
	tok, err := a.deps.Auth.Issue(u)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
	Data    json.RawMessage   `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Path   string         `json:"path"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

// captureLogs temporarily redirects the standard logger and returns the JSON entries written by fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func lagosAddress() map[string]string {
	return map[string]string{
		"fullName": "Ada Obi", "phone": "08031234567", "street": "3 Allen Avenue", "city": "Ikeja", "state": "Lagos",
	}
}
