package summarizer

import (
	"context"
	"time"
)

// Client is the external summarization model.
// Treated as always-fallible: callers must be prepared for any call to
// fail and degrade accordingly.
type Client interface {
	// Summarize produces a short abstractive summary of one text chunk
	Summarize(ctx context.Context, chunk string, options ...SummarizeOption) (*Response, error)

	// Name returns the model name
	Name() string
}

// Config summarizer client configuration.
type Config struct {
	APIKey      string        // API key
	BaseURL     string        // API endpoint
	Model       string        // model name
	Prompt      string        // system prompt sent with every chunk
	Timeout     time.Duration // per-request timeout
	MaxRetries  int           // retry limit for transient failures
	MaxTokens   int           // maximum generated tokens
	Temperature float32       // sampling temperature (0.0-2.0)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1/chat/completions",
		Model:       "gpt-4o-mini",
		Prompt:      defaultSystemPrompt,
		Timeout:     60 * time.Second,
		MaxRetries:  3,
		MaxTokens:   512,
		Temperature: 0.3,
	}
}

// defaultSystemPrompt steers the model toward plain-language digests
// of parliamentary text.
const defaultSystemPrompt = "You are an expert civic intelligence analyst. " +
	"Summarize parliamentary documents clearly in plain language."

// Option client configuration option.
type Option func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Config) {
		c.APIKey = apiKey
	}
}

// WithBaseURL sets the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithPrompt sets the system prompt.
func WithPrompt(prompt string) Option {
	return func(c *Config) {
		c.Prompt = prompt
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the retry limit.
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithMaxTokens sets the maximum generated tokens.
func WithMaxTokens(tokens int) Option {
	return func(c *Config) {
		c.MaxTokens = tokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float32) Option {
	return func(c *Config) {
		c.Temperature = temp
	}
}

// NewConfig creates a configuration and applies the options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SummarizeOption per-call generation option.
type SummarizeOption func(*SummarizeOptions)

// SummarizeOptions per-call generation parameters.
type SummarizeOptions struct {
	MaxOutputLen *int     // maximum output length in tokens
	MinOutputLen *int     // minimum useful output length in characters
	Temperature  *float32 // sampling temperature
}

// WithSummarizeMaxOutputLen bounds the generated summary length.
func WithSummarizeMaxOutputLen(n int) SummarizeOption {
	return func(o *SummarizeOptions) {
		o.MaxOutputLen = &n
	}
}

// WithSummarizeMinOutputLen sets the minimum useful output length.
func WithSummarizeMinOutputLen(n int) SummarizeOption {
	return func(o *SummarizeOptions) {
		o.MinOutputLen = &n
	}
}

// WithSummarizeTemperature sets the sampling temperature for one call.
func WithSummarizeTemperature(temp float32) SummarizeOption {
	return func(o *SummarizeOptions) {
		o.Temperature = &temp
	}
}

// Factory client factory function type.
type Factory func(opts ...Option) (Client, error)

// registered client factories
var clientFactories = make(map[string]Factory)

// RegisterClient registers a client factory under a name.
func RegisterClient(name string, factory Factory) {
	clientFactories[name] = factory
}

// NewClient creates a client by registered name.
func NewClient(name string, opts ...Option) (Client, error) {
	factory, exists := clientFactories[name]
	if !exists {
		return nil, NewSummarizerError(
			ErrCodeInvalidRequest,
			"summarizer client type not registered: "+name)
	}
	return factory(opts...)
}
