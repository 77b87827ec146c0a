package models

// AskResponse is the body of a successful POST /api/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-compatible body accepted by GitHub
// Models inference.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message *ChoiceMessage `json:"message"`
}

// ChoiceMessage keeps Content as a pointer so a missing field can be told
// apart from an empty answer.
type ChoiceMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}
