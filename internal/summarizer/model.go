package summarizer

import "time"

// Response one summarization result.
type Response struct {
	Text       string    // the generated summary
	ModelName  string    // model that produced it
	TokenCount int       // total tokens consumed
	FinishTime time.Time // completion timestamp
}

// message roles for chat-completions style APIs
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// chatMessage a chat-completions message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest OpenAI-compatible chat-completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// chatResponse OpenAI-compatible chat-completions response body.
type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
