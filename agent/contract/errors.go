package contract

import (
	"errors"
	"fmt"
)

var (
	ErrAgentNotFound        = errors.New("agent not found")
	ErrAgentNotActive       = errors.New("agent is not the active agent")
	ErrDuplicateAgent       = errors.New("agent already declared")
	ErrToolNotFound         = errors.New("tool not found")
	ErrDuplicateTool        = errors.New("tool already registered")
	ErrInvalidHandoff       = errors.New("invalid handoff")
	ErrHandoffNotAllowed    = errors.New("handoff not allowed")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrValidation           = errors.New("validation failed")
)

type ValidationKind string

const (
	ValidationMissingField    ValidationKind = "missing_field"
	ValidationOutOfRange      ValidationKind = "out_of_range"
	ValidationUnexpectedField ValidationKind = "unexpected_field"
	ValidationInvalidType     ValidationKind = "invalid_type"
)

// ValidationError reports a tool argument that violates the tool's schema.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: %s: %s: %s", ErrValidation, e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrorKind classifies err into the stable string carried by ToolResult.
func ErrorKind(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return string(verr.Kind)
	case errors.Is(err, ErrToolNotFound):
		return "tool_not_found"
	case errors.Is(err, ErrAgentNotFound):
		return "agent_not_found"
	case errors.Is(err, ErrAgentNotActive):
		return "agent_not_active"
	case errors.Is(err, ErrHandoffNotAllowed):
		return "handoff_not_allowed"
	case errors.Is(err, ErrInvalidHandoff):
		return "invalid_handoff"
	case errors.Is(err, ErrConversationNotFound):
		return "conversation_not_found"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	default:
		return "internal"
	}
}
