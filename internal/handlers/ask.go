package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BerylCAtieno/ask-relay/internal/metrics"
	"github.com/BerylCAtieno/ask-relay/internal/services"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

const (
	MaxBodySize = 1 << 20 // 1MB
)

type AskHandler struct {
	service services.AskService
	logger  *utils.Logger
}

func NewAskHandler(service services.AskService, logger *utils.Logger) *AskHandler {
	return &AskHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	// An unreadable body is treated like an empty one.
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Failed to read request body", "error", err)
		data = nil
	}

	resp, err := h.service.Ask(r.Context(), questionFromBody(data))
	if err != nil {
		h.respondError(w, err)
		return
	}

	metrics.AskOutcomes.WithLabelValues("ok").Inc()
	h.respondJSON(w, http.StatusOK, resp)
}

// questionFromBody reads the "question" field from a JSON object. Anything
// that is not a JSON object counts as {}; non-string values are rendered as
// text.
func questionFromBody(data []byte) string {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var body map[string]interface{}
	if err := decoder.Decode(&body); err != nil {
		return ""
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return ""
	}

	switch q := body["question"].(type) {
	case nil:
		return ""
	case string:
		return q
	case json.Number:
		return q.String()
	case bool:
		return fmt.Sprint(q)
	default:
		encoded, err := json.Marshal(q)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func (h *AskHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *AskHandler) respondError(w http.ResponseWriter, err error) {
	appErr, ok := utils.AsAppError(err)
	if !ok {
		h.logger.Error("Unexpected error", "error", err)
		appErr = utils.NewInternalError("Internal server error")
	}

	metrics.AskOutcomes.WithLabelValues(string(appErr.Kind)).Inc()
	h.logger.Error("Request error", "status", appErr.StatusCode, "kind", appErr.Kind, "error", appErr.Message)

	h.respondJSON(w, appErr.StatusCode, appErr.Body())
}
