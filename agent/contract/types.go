package contract

import "time"

// AgentName identifies an agent within a scenario.
type AgentName string

const (
	AgentDrEva                 AgentName = "drEva"
	AgentEmergencyTriage       AgentName = "emergencyTriage"
	AgentAppointmentSpecialist AgentName = "appointmentSpecialist"
)

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool      string `json:"tool"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"kind,omitempty"`
}

func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// ToolCall is a tool invocation as requested by the realtime transport.
// ConversationID is optional; when set, Agent defaults to the conversation's
// active agent.
type ToolCall struct {
	ConversationID string         `json:"conversation_id,omitempty"`
	Agent          AgentName      `json:"agent,omitempty"`
	Tool           string         `json:"tool"`
	Args           map[string]any `json:"args,omitempty"`
}

// Invocation is the journal record of a single tool call.
type Invocation struct {
	ConversationID string
	Agent          AgentName
	Tool           string
	Args           map[string]any
	ErrorKind      string
	Error          string
	Duration       time.Duration
	At             time.Time
}
