package realtime

import "fmt"

type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindUpstreamAuth  ErrorKind = "upstream_auth"
	KindUpstream      ErrorKind = "upstream"
	KindConnectivity  ErrorKind = "connectivity"
)

// Error is a failed session bootstrap. Status is the HTTP status to report
// to the caller; Detail carries the raw upstream body when there is one.
type Error struct {
	Kind    ErrorKind
	State   State
	Status  int
	Message string
	Detail  string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("realtime %s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("realtime %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

const (
	msgMissingKey     = "OpenAI API key is not configured. Please set OPENAI_API_KEY in your .env file and restart the server."
	msgPlaceholderKey = "Please replace the placeholder API key in your .env file with your actual OpenAI API key and restart the server."
	msgKeyFormat      = "Invalid OpenAI API key format. API keys should start with 'sk-'. Please check your .env file."
	msgUnauthorized   = "Invalid OpenAI API key. Please check your API key in the .env file."
	msgForbidden      = "Access denied. Your API key may not have access to the Realtime API."
	msgUnreachable    = "Failed to connect to OpenAI API. Please check your API key and network connection."
)

var placeholderKeys = map[string]bool{
	"your_openai_api_key_here": true,
	"your_api_key":             true,
}
