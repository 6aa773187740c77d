package clinic

import (
	"context"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/mockdata"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
)

// CareAction is the recommended care tier chosen during triage.
type CareAction string

const (
	CareImmediate          CareAction = "immediate_care"
	CareSameDayAppointment CareAction = "same_day_appointment"
	CareUrgentAppointment  CareAction = "urgent_appointment"
	CareRegularAppointment CareAction = "regular_appointment"
)

var CareActions = []CareAction{
	CareImmediate,
	CareSameDayAppointment,
	CareUrgentAppointment,
	CareRegularAppointment,
}

// SevereThreshold is the lowest severity score that receives the severe
// immediate-care instructions.
const SevereThreshold = 7

const (
	SevereCareInstructions   = "Take over-the-counter pain medication as directed. Apply cold compress to outside of cheek. Avoid hot/cold foods."
	ModerateCareInstructions = "Continue current pain management. Avoid chewing on affected side."
)

type carePlan struct {
	nextSteps       string
	appointmentTime string
}

func planFor(action CareAction) (carePlan, bool) {
	switch action {
	case CareImmediate:
		return carePlan{
			nextSteps:       "Patient needs to come in immediately. Dr. Estrabillo will see them as soon as they arrive.",
			appointmentTime: "Immediately - please come in now",
		}, true
	case CareSameDayAppointment:
		return carePlan{
			nextSteps:       "Schedule patient for same-day emergency appointment.",
			appointmentTime: "Today at 4:30 PM (emergency slot)",
		}, true
	case CareUrgentAppointment:
		return carePlan{
			nextSteps:       "Schedule patient within 24 hours.",
			appointmentTime: "Tomorrow at 9:00 AM",
		}, true
	case CareRegularAppointment:
		return carePlan{
			nextSteps:       "Can be scheduled for regular appointment within a few days.",
			appointmentTime: "Next available: Friday at 2:00 PM",
		}, true
	}
	return carePlan{}, false
}

func ImmediateCareInstructions(severity float64) string {
	if severity >= SevereThreshold {
		return SevereCareInstructions
	}
	return ModerateCareInstructions
}

// Assessment is an emergency as reported to the triage agent.
type Assessment struct {
	PatientPhone string
	Symptoms     string
	PainLevel    float64
	Severity     float64
	Action       CareAction
}

type TriageOutput struct {
	EmergencyID               string     `json:"emergency_id"`
	SeverityScore             float64    `json:"severity_score"`
	RecommendedAction         CareAction `json:"recommended_action"`
	NextSteps                 string     `json:"next_steps"`
	AppointmentTime           string     `json:"appointment_time"`
	ImmediateCareInstructions string     `json:"immediate_care_instructions"`
}

func (a Assessment) Triage(emergencyID string) TriageOutput {
	plan, _ := planFor(a.Action)
	return TriageOutput{
		EmergencyID:               emergencyID,
		SeverityScore:             a.Severity,
		RecommendedAction:         a.Action,
		NextSteps:                 plan.nextSteps,
		AppointmentTime:           plan.appointmentTime,
		ImmediateCareInstructions: ImmediateCareInstructions(a.Severity),
	}
}

func TriageEmergency(now Clock) toolx.Tool {
	now = orNow(now)
	actions := make([]string, len(CareActions))
	for i, a := range CareActions {
		actions[i] = string(a)
	}
	return toolx.Tool{
		Name:        ToolTriageEmergency,
		Description: "Assess and log a dental emergency with severity scoring and recommended action.",
		Schema: toolx.NewSchema(
			toolx.String("patient_phone", "Patient phone number").Require(),
			toolx.String("symptoms", "Description of symptoms reported by patient").Require(),
			toolx.Number("pain_level", "Pain level on 1-10 scale as reported by patient").Between(1, 10).Require(),
			toolx.Number("severity_assessment", "Clinical severity assessment on 1-10 scale").Between(1, 10).Require(),
			toolx.String("recommended_action", "Recommended level of care based on assessment").OneOf(actions...).Require(),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			a := Assessment{
				PatientPhone: args.String("patient_phone"),
				Symptoms:     args.String("symptoms"),
				PainLevel:    args.Float("pain_level"),
				Severity:     args.Float("severity_assessment"),
				Action:       CareAction(args.String("recommended_action")),
			}
			return a.Triage(stampID("EMG", now)), nil
		},
	}
}

type EmergencyAppointmentOutput struct {
	AppointmentID    string `json:"appointment_id"`
	Confirmation     string `json:"confirmation"`
	Time             string `json:"time"`
	Instructions     string `json:"instructions"`
	EstimatedWait    string `json:"estimated_wait"`
	ClinicAddress    string `json:"clinic_address"`
	EmergencyContact string `json:"emergency_contact"`
}

type emergencySlot struct {
	time          string
	instructions  string
	estimatedWait string
}

var emergencySlots = map[string]emergencySlot{
	"emergency_immediate": {
		time:          "Immediately",
		instructions:  "Please come to the clinic right away. Dr. Estrabillo will see you as soon as you arrive.",
		estimatedWait: "0-15 minutes",
	},
	"emergency_same_day": {
		time:          "Today at 4:30 PM",
		instructions:  "Please arrive 15 minutes early for check-in.",
		estimatedWait: "0-10 minutes",
	},
	"urgent_care": {
		time:          "Tomorrow at 9:00 AM",
		instructions:  "Please arrive 15 minutes early. Bring your insurance card.",
		estimatedWait: "5-15 minutes",
	},
}

func ScheduleEmergencyAppointment(now Clock) toolx.Tool {
	now = orNow(now)
	return toolx.Tool{
		Name:        ToolScheduleEmergencyAppointment,
		Description: "Schedule an emergency dental appointment.",
		Schema: toolx.NewSchema(
			toolx.String("patient_phone", "Patient phone number").Require(),
			toolx.String("appointment_type", "Type of emergency appointment needed").
				OneOf("emergency_immediate", "emergency_same_day", "urgent_care").Require(),
			toolx.String("symptoms_summary", "Brief summary of patient symptoms").Require(),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			slot := emergencySlots[args.String("appointment_type")]
			return EmergencyAppointmentOutput{
				AppointmentID:    stampID("APPT-EMG", now),
				Confirmation:     "Emergency appointment scheduled for " + slot.time,
				Time:             slot.time,
				Instructions:     slot.instructions,
				EstimatedWait:    slot.estimatedWait,
				ClinicAddress:    mockdata.ClinicAddress,
				EmergencyContact: EmergencyContact,
			}, nil
		},
	}
}
