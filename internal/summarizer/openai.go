package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient summarizer backed by an OpenAI-compatible
// chat-completions API.
type OpenAIClient struct {
	apiKey      string       // API key
	baseURL     string       // API endpoint
	model       string       // model name
	prompt      string       // system prompt
	httpClient  *http.Client // HTTP client
	maxRetries  int          // retry limit
	maxTokens   int          // default max generated tokens
	temperature float32      // default sampling temperature
}

// NewOpenAIClient creates a new OpenAI-compatible summarizer client.
func NewOpenAIClient(opts ...Option) (Client, error) {
	cfg := NewConfig(opts...)

	if cfg.APIKey == "" {
		return nil, NewSummarizerError(ErrCodeInvalidAPIKey, ErrMsgInvalidAPIKey)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIEndpoint
	}

	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		prompt:      cfg.Prompt,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxRetries:  cfg.MaxRetries,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the model name.
func (c *OpenAIClient) Name() string {
	return c.model
}

// Summarize sends one chunk to the model and returns its summary.
func (c *OpenAIClient) Summarize(ctx context.Context, chunk string, options ...SummarizeOption) (*Response, error) {
	if chunk == "" {
		return nil, NewSummarizerError(ErrCodeEmptyChunk, ErrMsgEmptyChunk)
	}

	opts := &SummarizeOptions{}
	for _, opt := range options {
		opt(opts)
	}

	req := &chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: RoleSystem, Content: c.prompt},
			{Role: RoleUser, Content: chunk},
		},
	}

	if opts.MaxOutputLen != nil {
		req.MaxTokens = opts.MaxOutputLen
	} else if c.maxTokens > 0 {
		maxTokens := c.maxTokens
		req.MaxTokens = &maxTokens
	}

	if opts.Temperature != nil {
		req.Temperature = opts.Temperature
	} else if c.temperature > 0 {
		temp := c.temperature
		req.Temperature = &temp
	}

	resp, err := c.sendRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.processResponse(resp)
}

// sendRequest posts the request with retries and parses the response.
func (c *OpenAIClient) sendRequest(ctx context.Context, req *chatRequest) (*chatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, NewSummarizerError(ErrCodeInvalidRequest, fmt.Sprintf("failed to marshal request: %v", err))
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// exponential backoff between retries
			select {
			case <-ctx.Done():
				return nil, NewSummarizerError(ErrCodeTimeout, ctx.Err().Error())
			case <-time.After(time.Duration(1<<attempt) * 100 * time.Millisecond):
			}
		}

		httpReq, reqErr := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			c.baseURL,
			bytes.NewBuffer(jsonData),
		)
		if reqErr != nil {
			return nil, NewSummarizerError(ErrCodeInvalidRequest, fmt.Sprintf("failed to create request: %v", reqErr))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
		httpReq.Header.Set("Accept", "application/json")

		resp, err = c.httpClient.Do(httpReq)
		if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			// success or a client error that retrying will not fix
			break
		}

		if err != nil {
			lastErr = err
		} else if attempt < c.maxRetries {
			// keep the final attempt's body readable for the error path
			resp.Body.Close()
		}
	}

	if err != nil {
		return nil, WrapError(lastErr, ErrCodeNetworkError)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSummarizerError(ErrCodeServerError, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewSummarizerError(ErrCodeRateLimited, fmt.Sprintf("rate limited: %s", string(body)))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, NewSummarizerError(ErrCodeServerError,
				fmt.Sprintf("API error: %s (%s)", errResp.Error.Message, errResp.Error.Type))
		}
		return nil, NewSummarizerError(ErrCodeServerError,
			fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, NewSummarizerError(ErrCodeServerError,
			fmt.Sprintf("failed to parse response: %v", err))
	}

	if chatResp.Error != nil {
		return nil, NewSummarizerError(ErrCodeServerError,
			fmt.Sprintf("API error: %s (%s)", chatResp.Error.Message, chatResp.Error.Type))
	}

	return &chatResp, nil
}

// processResponse converts the wire response into a Response.
func (c *OpenAIClient) processResponse(resp *chatResponse) (*Response, error) {
	if len(resp.Choices) == 0 {
		return nil, NewSummarizerError(ErrCodeEmptyResponse, ErrMsgEmptyResponse)
	}

	return &Response{
		Text:       resp.Choices[0].Message.Content,
		ModelName:  c.model,
		TokenCount: resp.Usage.TotalTokens,
		FinishTime: time.Now(),
	}, nil
}

// register the OpenAI-compatible client at package load
func init() {
	RegisterClient("openai", NewOpenAIClient)
}
