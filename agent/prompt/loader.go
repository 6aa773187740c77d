package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/dr_eva.txt
	drEvaRaw string

	//go:embed template/emergency_triage.txt
	emergencyTriageRaw string

	//go:embed template/appointment_specialist.txt
	appointmentSpecialistRaw string
)

// PromptSet holds the agent instruction scripts. The content is handed to
// the realtime transport as-is and never interpreted here.
type PromptSet struct {
	DrEva                 string
	EmergencyTriage       string
	AppointmentSpecialist string
}

// LoadPromptSet returns a PromptSet with surrounding whitespace trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		DrEva:                 strings.TrimSpace(drEvaRaw),
		EmergencyTriage:       strings.TrimSpace(emergencyTriageRaw),
		AppointmentSpecialist: strings.TrimSpace(appointmentSpecialistRaw),
	}
}
