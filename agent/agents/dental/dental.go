// Package dental assembles the Estrabillo Dental Clinic scenario: a
// receptionist, an emergency triage agent and an appointment specialist,
// each able to hand the conversation to the other two.
package dental

import (
	"fmt"

	agentsx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/agents"
	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	handoffx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/handoff"
	promptx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/prompt"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool/clinic"
)

const (
	ScenarioName = "dentalClinic"
	CompanyName  = "Estrabillo Dental Clinic"
)

type options struct {
	clock   clinic.Clock
	prompts *promptx.PromptSet
}

type Option func(*options)

// WithClock fixes the clock used for generated appointment and emergency IDs.
func WithClock(now clinic.Clock) Option {
	return func(o *options) { o.clock = now }
}

func WithPrompts(p promptx.PromptSet) Option {
	return func(o *options) { o.prompts = &p }
}

func New(opts ...Option) (*agentsx.Scenario, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	prompts := promptx.LoadPromptSet()
	if o.prompts != nil {
		prompts = *o.prompts
	}

	names := []contractx.AgentName{
		contractx.AgentDrEva,
		contractx.AgentEmergencyTriage,
		contractx.AgentAppointmentSpecialist,
	}

	graph, err := handoffx.FullyConnected(names...)
	if err != nil {
		return nil, fmt.Errorf("wire handoffs: %w", err)
	}

	reception, err := toolx.NewRegistry(contractx.AgentDrEva, clinic.ReceptionTools()...)
	if err != nil {
		return nil, err
	}
	emergency, err := toolx.NewRegistry(contractx.AgentEmergencyTriage, clinic.EmergencyTools(o.clock)...)
	if err != nil {
		return nil, err
	}
	appointments, err := toolx.NewRegistry(contractx.AgentAppointmentSpecialist, clinic.AppointmentTools(o.clock)...)
	if err != nil {
		return nil, err
	}

	return agentsx.NewScenario(ScenarioName, CompanyName, graph,
		agentsx.Agent{
			Name:               contractx.AgentDrEva,
			Voice:              agentsx.DefaultVoice,
			HandoffDescription: "Primary dental receptionist agent that greets patients, handles basic inquiries, and routes to specialized agents for appointments or emergencies.",
			Instructions:       prompts.DrEva,
			Tools:              reception,
		},
		agentsx.Agent{
			Name:               contractx.AgentEmergencyTriage,
			Voice:              agentsx.DefaultVoice,
			HandoffDescription: "Emergency triage specialist that assesses dental emergencies, determines severity, and coordinates immediate care.",
			Instructions:       prompts.EmergencyTriage,
			Tools:              emergency,
		},
		agentsx.Agent{
			Name:               contractx.AgentAppointmentSpecialist,
			Voice:              agentsx.DefaultVoice,
			HandoffDescription: "Appointment scheduling specialist for routine dental appointments, cleanings, and procedures.",
			Instructions:       prompts.AppointmentSpecialist,
			Tools:              appointments,
		},
	)
}

// MustNew panics if the scenario cannot be assembled.
func MustNew(opts ...Option) *agentsx.Scenario {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}
