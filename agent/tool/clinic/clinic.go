// Package clinic implements the dental clinic tools. Every handler is a pure
// function of its arguments, the mockdata tables and the injected clock:
// booking and triage fabricate plausible results and record nothing.
package clinic

import (
	"fmt"
	"time"

	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
)

const (
	ToolLookupPatient                = "lookupPatient"
	ToolGetBasicInfo                 = "getBasicInfo"
	ToolTriageEmergency              = "triageEmergency"
	ToolScheduleEmergencyAppointment = "scheduleEmergencyAppointment"
	ToolCheckRoutineAvailability     = "checkRoutineAvailability"
	ToolScheduleAppointment          = "scheduleAppointment"
	ToolRescheduleAppointment        = "rescheduleAppointment"
)

const (
	ClinicPhone      = "(555) 123-DENT"
	ClinicParking    = "Free parking available in front of building"
	EmergencyContact = "(555) 999-DENT for after-hours emergencies"
)

type Clock func() time.Time

func ReceptionTools() []toolx.Tool {
	return []toolx.Tool{LookupPatient(), GetBasicInfo()}
}

func EmergencyTools(now Clock) []toolx.Tool {
	now = orNow(now)
	return []toolx.Tool{TriageEmergency(now), ScheduleEmergencyAppointment(now)}
}

func AppointmentTools(now Clock) []toolx.Tool {
	now = orNow(now)
	return []toolx.Tool{CheckRoutineAvailability(), ScheduleAppointment(now), RescheduleAppointment()}
}

func orNow(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

// stampID builds the millisecond-timestamp identifiers the clinic hands out.
func stampID(prefix string, now Clock) string {
	return fmt.Sprintf("%s-%d", prefix, now().UnixMilli())
}
