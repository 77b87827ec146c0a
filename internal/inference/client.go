package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/BerylCAtieno/ask-relay/internal/config"
	"github.com/BerylCAtieno/ask-relay/internal/metrics"
	"github.com/BerylCAtieno/ask-relay/internal/models"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

const (
	RequestTimeout = 30 * time.Second
	MaxTokens      = 500
	Temperature    = 0.7

	MsgMissingToken = "Server missing GITHUB_TOKEN environment variable"
	MsgUnreachable  = "GitHub inference request failed"
	MsgParseFailed  = "Failed to parse GitHub response"
)

// Dispatcher sends one question to the model and returns its reply.
type Dispatcher interface {
	Complete(ctx context.Context, systemInstruction, question string) (string, error)
	// Validate reports a configuration error without touching the network.
	Validate() error
}

type githubClient struct {
	token  string
	model  string
	url    string
	mapper ErrorMapper
	logger *utils.Logger
	client *http.Client
}

func NewGitHubClient(cfg *config.Config, mapper ErrorMapper, logger *utils.Logger) Dispatcher {
	return &githubClient{
		token:  cfg.GitHubToken,
		model:  cfg.GitHubModel,
		url:    cfg.InferenceURL,
		mapper: mapper,
		logger: logger,
		client: &http.Client{
			Timeout: RequestTimeout,
		},
	}
}

func (c *githubClient) Validate() error {
	if c.token == "" {
		return utils.NewConfigurationError(MsgMissingToken)
	}
	return nil
}

func (c *githubClient) Complete(ctx context.Context, systemInstruction, question string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	reqBody := models.ChatCompletionRequest{
		Model: c.model,
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: systemInstruction},
			{Role: models.RoleUser, Content: question},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues("transport_error").Observe(time.Since(start).Seconds())
		c.logger.Error("GitHub inference request failed", "error", err, "model", c.model)
		return "", unreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.UpstreamDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("Failed to read GitHub response", "error", err, "status", resp.StatusCode)
		return "", unreachable(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("GitHub API error", "status", resp.StatusCode, "body", string(body))
		return "", c.mapper.Map(resp.StatusCode, decodeErrorBody(body))
	}

	answer, err := parseAnswer(body)
	if err != nil {
		c.logger.Error("Failed to parse GitHub response", "error", err)
		appErr := utils.NewAppError(utils.KindResponseParse, http.StatusBadGateway, MsgParseFailed).
			WithDetail("details", err.Error()).
			WithDetail("raw", string(body))
		appErr.Err = err
		return "", appErr
	}

	return answer, nil
}

func unreachable(err error) *utils.AppError {
	appErr := utils.NewAppError(utils.KindUpstreamUnreachable, http.StatusBadGateway, MsgUnreachable).
		WithDetail("details", err.Error())
	appErr.Err = err
	return appErr
}

// decodeErrorBody returns the parsed JSON value, or the raw text if the body
// is not valid JSON.
func decodeErrorBody(body []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}

var (
	errNoChoices = errors.New("response has no choices")
	errNoMessage = errors.New("choices[0] has no message")
	errNoContent = errors.New("choices[0].message has no content")
)

func parseAnswer(body []byte) (string, error) {
	var completion models.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errNoChoices
	}
	msg := completion.Choices[0].Message
	if msg == nil {
		return "", errNoMessage
	}
	if msg.Content == nil {
		return "", errNoContent
	}

	return *msg.Content, nil
}
