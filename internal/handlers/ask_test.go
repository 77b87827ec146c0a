package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/ask-relay/internal/models"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	question string
	resp     *models.AskResponse
	err      error
}

func (s *stubService) Ask(_ context.Context, question string) (*models.AskResponse, error) {
	s.question = question
	return s.resp, s.err
}

func TestQuestionFromBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"string", `{"question":"hi"}`, "hi"},
		{"missing field", `{}`, ""},
		{"null", `{"question":null}`, ""},
		{"number", `{"question":42}`, "42"},
		{"large integer", `{"question":12345678901234567890}`, "12345678901234567890"},
		{"decimal", `{"question":1.50}`, "1.50"},
		{"bool", `{"question":true}`, "true"},
		{"array", `{"question":["a"]}`, `["a"]`},
		{"malformed", `{"question":`, ""},
		{"trailing data", `{"question":"hi"} {"question":"again"}`, ""},
		{"not an object", `["hi"]`, ""},
		{"string body", `"hi"`, ""},
		{"empty body", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, questionFromBody([]byte(tt.body)))
		})
	}
}

func TestAskHandler_Success(t *testing.T) {
	svc := &stubService{resp: &models.AskResponse{Answer: "Hello"}}
	h := NewAskHandler(svc, utils.NewNopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"  hi "}`))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"answer":"Hello"}`, rec.Body.String())
	assert.Equal(t, "  hi ", svc.question)
}

func TestAskHandler_AppError(t *testing.T) {
	appErr := utils.NewAppError(utils.KindUpstreamError, http.StatusBadGateway, "GitHub API returned error").
		WithDetail("status_code", 500).
		WithDetail("response", "boom")
	h := NewAskHandler(&stubService{err: appErr}, utils.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"hi"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"GitHub API returned error","status_code":500,"response":"boom"}`, rec.Body.String())
}

func TestAskHandler_UnknownError(t *testing.T) {
	h := NewAskHandler(&stubService{err: errors.New("kaboom")}, utils.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"hi"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestAskHandler_OversizedBodyIsEmpty(t *testing.T) {
	svc := &stubService{err: utils.NewBadRequestError("No question provided")}
	h := NewAskHandler(svc, utils.NewNopLogger())

	big := `{"question":"` + strings.Repeat("a", MaxBodySize) + `"}`
	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.question)
}
