package inference

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

const (
	MsgUpstreamError = "GitHub API returned error"
	MsgRateLimited   = "Rate limit exceeded for the GitHub inference API. Please try again later."
	MsgUnauthorized  = "GitHub rejected the token (401). Check your token is valid and not expired."
	MsgForbidden     = "GitHub refused the token (403); the token may not have permission to use this model."
)

// ErrorMapper turns an upstream error response into an AppError. body is the
// decoded JSON value, or the raw text when the body was not JSON.
type ErrorMapper interface {
	Map(status int, body interface{}) *utils.AppError
}

// PassThrough echoes every upstream failure as a 502 with the original
// status and body attached.
type PassThrough struct{}

func (PassThrough) Map(status int, body interface{}) *utils.AppError {
	return utils.NewAppError(utils.KindUpstreamError, http.StatusBadGateway, MsgUpstreamError).
		WithDetail("status_code", status).
		WithDetail("response", body)
}

// Rule is one row of the classification table. Rules are tried in order.
type Rule struct {
	Kind       utils.ErrorKind
	StatusCode int
	Message    string
	Match      func(status int, message string) bool
}

// DefaultRules maps throttling and credential failures to 429. Auth
// failures share the quota status code with rate limiting.
var DefaultRules = []Rule{
	{Kind: utils.KindQuotaExceeded, StatusCode: http.StatusTooManyRequests, Message: MsgRateLimited, Match: statusIs(http.StatusTooManyRequests)},
	{Kind: utils.KindUnauthorized, StatusCode: http.StatusTooManyRequests, Message: MsgUnauthorized, Match: statusIs(http.StatusUnauthorized)},
	{Kind: utils.KindForbidden, StatusCode: http.StatusTooManyRequests, Message: MsgForbidden, Match: statusIs(http.StatusForbidden)},
	{Kind: utils.KindQuotaExceeded, StatusCode: http.StatusTooManyRequests, Message: MsgRateLimited, Match: messageContains("quota", "rate limit", "out of", "exceeded")},
}

// Classifier applies Rules and falls back to PassThrough.
type Classifier struct {
	Rules []Rule
}

func NewClassifier() *Classifier {
	return &Classifier{Rules: DefaultRules}
}

func (c *Classifier) Map(status int, body interface{}) *utils.AppError {
	message := errorMessage(body)
	for _, r := range c.Rules {
		if r.Match(status, message) {
			return utils.NewAppError(r.Kind, r.StatusCode, r.Message).
				WithDetail("status_code", status)
		}
	}
	return PassThrough{}.Map(status, body)
}

// NewErrorMapper returns the classifier, or the pass-through mapper when
// classification is disabled.
func NewErrorMapper(classify bool) ErrorMapper {
	if classify {
		return NewClassifier()
	}
	return PassThrough{}
}

func statusIs(code int) func(int, string) bool {
	return func(status int, _ string) bool {
		return status == code
	}
}

func messageContains(needles ...string) func(int, string) bool {
	return func(_ int, message string) bool {
		message = strings.ToLower(message)
		if message == "" {
			return false
		}
		for _, n := range needles {
			if strings.Contains(message, n) {
				return true
			}
		}
		return false
	}
}

// errorMessage digs the human-readable message out of the shapes providers
// use: {"error":{"message":...}}, {"error":"..."}, {"message":...} or text.
func errorMessage(body interface{}) string {
	switch b := body.(type) {
	case string:
		return b
	case map[string]interface{}:
		switch e := b["error"].(type) {
		case string:
			return e
		case map[string]interface{}:
			if m, ok := e["message"].(string); ok {
				return m
			}
			if e["message"] != nil {
				return fmt.Sprint(e["message"])
			}
		}
		if m, ok := b["message"].(string); ok {
			return m
		}
	}
	return ""
}
