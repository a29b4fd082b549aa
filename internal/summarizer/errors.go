package summarizer

import "fmt"

// SummarizerError error returned by summarizer clients.
type SummarizerError struct {
	Code    int    // error code
	Message string // error message
}

// Error implements the error interface.
func (e SummarizerError) Error() string {
	return fmt.Sprintf("summarizer error (code=%d): %s", e.Code, e.Message)
}

// error codes
const (
	ErrCodeInvalidAPIKey  = 1001 // missing or invalid API key
	ErrCodeInvalidRequest = 1002 // malformed request
	ErrCodeNetworkError   = 1003 // connection failure
	ErrCodeRateLimited    = 1004 // rate limit exceeded
	ErrCodeServerError    = 1005 // upstream server error
	ErrCodeTimeout        = 1006 // request timed out
	ErrCodeEmptyChunk     = 1007 // empty input chunk
	ErrCodeEmptyResponse  = 1008 // model returned nothing usable
)

// error messages
const (
	ErrMsgInvalidAPIKey = "invalid API key"
	ErrMsgEmptyChunk    = "chunk cannot be empty"
	ErrMsgEmptyResponse = "empty response from model"
)

// NewSummarizerError creates a new summarizer error.
func NewSummarizerError(code int, message string) SummarizerError {
	return SummarizerError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an ordinary error as a summarizer error.
func WrapError(err error, code int) SummarizerError {
	if err == nil {
		return SummarizerError{Code: code, Message: "unknown error"}
	}

	if serr, ok := err.(SummarizerError); ok {
		return serr
	}

	return SummarizerError{
		Code:    code,
		Message: err.Error(),
	}
}
