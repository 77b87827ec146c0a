package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BerylCAtieno/ask-relay/internal/config"
	"github.com/BerylCAtieno/ask-relay/internal/services"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	if cfg.GitHubModel == "" {
		cfg.GitHubModel = config.DefaultModel
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = t.TempDir()
	}
	svc, err := services.NewService(cfg, utils.NewNopLogger())
	require.NoError(t, err)
	return NewRouter(svc, cfg.StaticDir, utils.NewNopLogger())
}

func upstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postAsk(h http.Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestAsk_NoQuestion(t *testing.T) {
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: "http://127.0.0.1:1"})

	for _, body := range []string{`{"question":""}`, `{"question":"   "}`, `{}`, `[1,2]`, `not json`, ``} {
		rec, decoded := postAsk(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "No question provided", decoded["error"], body)
	}
}

func TestAsk_MissingToken(t *testing.T) {
	h := newTestRouter(t, &config.Config{InferenceURL: "http://127.0.0.1:1"})

	rec, decoded := postAsk(h, `{"question":"When is the picnic?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server missing GITHUB_TOKEN environment variable", decoded["error"])
}

func TestAsk_Success(t *testing.T) {
	srv := upstream(t, http.StatusOK, `{"choices":[{"message":{"content":"Hello"}}]}`)
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: srv.URL, ClassifyErrors: true})

	rec, _ := postAsk(h, `{"question":"hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"Hello"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAsk_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: url, ClassifyErrors: true})

	rec, decoded := postAsk(h, `{"question":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "GitHub inference request failed", decoded["error"])
	assert.NotEmpty(t, decoded["details"])
}

func TestAsk_RateLimited(t *testing.T) {
	srv := upstream(t, http.StatusTooManyRequests, `{"error":{"message":"Rate limit of 10 per 60s exceeded"}}`)
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: srv.URL, ClassifyErrors: true})

	rec, decoded := postAsk(h, `{"question":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, decoded["error"], "Rate limit exceeded")
	assert.Contains(t, decoded["error"], "try again later")
}

func TestAsk_PassThroughWhenClassifierDisabled(t *testing.T) {
	srv := upstream(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: srv.URL})

	rec, decoded := postAsk(h, `{"question":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "GitHub API returned error", decoded["error"])
	assert.EqualValues(t, 429, decoded["status_code"])
	assert.Equal(t, map[string]interface{}{"error": map[string]interface{}{"message": "slow down"}}, decoded["response"])
}

func TestAsk_ParseError(t *testing.T) {
	srv := upstream(t, http.StatusOK, `{"id":"x"}`)
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: srv.URL, ClassifyErrors: true})

	rec, decoded := postAsk(h, `{"question":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to parse GitHub response", decoded["error"])
	assert.NotEmpty(t, decoded["details"])
	assert.Equal(t, `{"id":"x"}`, decoded["raw"])
}

func TestAsk_SheetUnreachable(t *testing.T) {
	sheet := httptest.NewServer(http.NotFoundHandler())
	sheetURL := sheet.URL
	sheet.Close()

	srv := upstream(t, http.StatusOK, `{"choices":[{"message":{"content":"No data, sorry"}}]}`)
	h := newTestRouter(t, &config.Config{
		GitHubToken:    "tok",
		InferenceURL:   srv.URL,
		ClassifyErrors: true,
		SheetCSVURL:    sheetURL,
	})

	rec, decoded := postAsk(h, `{"question":"What's on?"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No data, sorry", decoded["answer"])
}

func TestAsk_Preflight(t *testing.T) {
	h := newTestRouter(t, &config.Config{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/ask", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestStaticAndHealth(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("home"), 0o644))
	h := newTestRouter(t, &config.Config{StaticDir: root})

	tests := []struct {
		path         string
		expectedCode int
		expectedBody string
	}{
		{"/", http.StatusOK, "home"},
		{"/health", http.StatusOK, `{"status":"healthy"}`},
		{"/nope.html", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := upstream(t, http.StatusOK, `{"choices":[{"message":{"content":"Hello"}}]}`)
	h := newTestRouter(t, &config.Config{GitHubToken: "tok", InferenceURL: srv.URL})
	postAsk(h, `{"question":"hi"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ask_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/ask"`)
}
