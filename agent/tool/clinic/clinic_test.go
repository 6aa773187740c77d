package clinic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
)

var fixedNow = time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func invoke(t *testing.T, tl toolx.Tool, args map[string]any) any {
	t.Helper()
	reg := toolx.MustNewRegistry(contractx.AgentDrEva, tl)
	out, err := reg.Invoke(context.Background(), tl.Name, args)
	if err != nil {
		t.Fatalf("Invoke(%s) error = %v", tl.Name, err)
	}
	return out
}

func TestInfoForCoversEveryTopic(t *testing.T) {
	t.Parallel()

	for _, topic := range Topics {
		info, ok := InfoFor(topic)
		if !ok {
			t.Fatalf("InfoFor(%q) missing", topic)
		}
		if info.Description == "" {
			t.Fatalf("InfoFor(%q) has empty description", topic)
		}
	}
	if _, ok := InfoFor("whitening"); ok {
		t.Fatal("InfoFor(whitening) should not resolve")
	}
}

func TestGetBasicInfoRejectsUnknownTopic(t *testing.T) {
	t.Parallel()

	reg := toolx.MustNewRegistry(contractx.AgentDrEva, GetBasicInfo())
	_, err := reg.Invoke(context.Background(), ToolGetBasicInfo, map[string]any{"topic": "whitening"})
	var verr *contractx.ValidationError
	if !errors.As(err, &verr) || verr.Kind != contractx.ValidationOutOfRange {
		t.Fatalf("Invoke() error = %v, want out_of_range", err)
	}
}

func TestLookupPatient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      map[string]any
		wantFound bool
		wantName  string
	}{
		{name: "known phone", args: map[string]any{"phone_number": "(555) 123-4567"}, wantFound: true, wantName: "Maria Rodriguez"},
		{name: "unknown phone", args: map[string]any{"phone_number": "(555) 000-0000"}},
		{name: "name fragment", args: map[string]any{"patient_name": "smith"}, wantFound: true, wantName: "John Smith"},
		{name: "phone wins over name", args: map[string]any{"phone_number": "(555) 000-0000", "patient_name": "smith"}},
		{name: "nothing given", args: map[string]any{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := invoke(t, LookupPatient(), tt.args).(LookupPatientOutput)
			if out.Found != tt.wantFound {
				t.Fatalf("Found = %v, want %v", out.Found, tt.wantFound)
			}
			if !tt.wantFound {
				if out.Message != patientNotFoundMessage {
					t.Fatalf("Message = %q", out.Message)
				}
				return
			}
			if out.Patient.Name != tt.wantName {
				t.Fatalf("Patient.Name = %q, want %q", out.Patient.Name, tt.wantName)
			}
		})
	}
}

func TestTriageInstructionsBySeverity(t *testing.T) {
	t.Parallel()

	for severity := 1; severity <= 10; severity++ {
		out := invoke(t, TriageEmergency(fixedClock), map[string]any{
			"patient_phone":       "(555) 123-4567",
			"symptoms":            "swelling",
			"pain_level":          float64(severity),
			"severity_assessment": float64(severity),
			"recommended_action":  string(CareUrgentAppointment),
		}).(TriageOutput)

		want := ModerateCareInstructions
		if severity >= 7 {
			want = SevereCareInstructions
		}
		if out.ImmediateCareInstructions != want {
			t.Fatalf("severity %d: instructions = %q, want %q", severity, out.ImmediateCareInstructions, want)
		}
		if out.SeverityScore != float64(severity) {
			t.Fatalf("severity %d: SeverityScore = %v", severity, out.SeverityScore)
		}
	}
}

func TestTriagePlanPerAction(t *testing.T) {
	t.Parallel()

	for _, action := range CareActions {
		out := invoke(t, TriageEmergency(fixedClock), map[string]any{
			"patient_phone":       "(555) 123-4567",
			"symptoms":            "toothache",
			"pain_level":          5,
			"severity_assessment": 5,
			"recommended_action":  string(action),
		}).(TriageOutput)
		if out.NextSteps == "" || out.AppointmentTime == "" {
			t.Fatalf("action %s: empty plan %+v", action, out)
		}
		if out.RecommendedAction != action {
			t.Fatalf("RecommendedAction = %s, want %s", out.RecommendedAction, action)
		}
	}
}

func TestTriageIDUsesClock(t *testing.T) {
	t.Parallel()

	out := invoke(t, TriageEmergency(fixedClock), map[string]any{
		"patient_phone":       "(555) 123-4567",
		"symptoms":            "knocked out tooth",
		"pain_level":          9,
		"severity_assessment": 10,
		"recommended_action":  string(CareImmediate),
	}).(TriageOutput)
	if want := "EMG-1736848800000"; out.EmergencyID != want {
		t.Fatalf("EmergencyID = %q, want %q", out.EmergencyID, want)
	}
	if out.AppointmentTime != "Immediately - please come in now" {
		t.Fatalf("AppointmentTime = %q", out.AppointmentTime)
	}
}

func TestTriageRejectsOutOfRangeSeverity(t *testing.T) {
	t.Parallel()

	tl := TriageEmergency(fixedClock)
	reg := toolx.MustNewRegistry(contractx.AgentEmergencyTriage, tl)
	_, err := reg.Invoke(context.Background(), tl.Name, map[string]any{
		"patient_phone":       "(555) 123-4567",
		"symptoms":            "toothache",
		"pain_level":          5,
		"severity_assessment": 11,
		"recommended_action":  string(CareImmediate),
	})
	if contractx.ErrorKind(err) != string(contractx.ValidationOutOfRange) {
		t.Fatalf("Invoke() error = %v, want out_of_range", err)
	}
}

func TestScheduleEmergencyAppointment(t *testing.T) {
	t.Parallel()

	out := invoke(t, ScheduleEmergencyAppointment(fixedClock), map[string]any{
		"patient_phone":    "(555) 123-4567",
		"appointment_type": "emergency_same_day",
		"symptoms_summary": "cracked molar",
	}).(EmergencyAppointmentOutput)

	if out.AppointmentID != "APPT-EMG-1736848800000" {
		t.Fatalf("AppointmentID = %q", out.AppointmentID)
	}
	if out.Confirmation != "Emergency appointment scheduled for Today at 4:30 PM" {
		t.Fatalf("Confirmation = %q", out.Confirmation)
	}
	if out.EstimatedWait != "0-10 minutes" || out.EmergencyContact != EmergencyContact {
		t.Fatalf("out = %+v", out)
	}
}

func TestCheckAvailabilityFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query AvailabilityQuery
	}{
		{name: "no filter", query: AvailabilityQuery{AppointmentType: "cleaning"}},
		{name: "morning", query: AvailabilityQuery{AppointmentType: "exam", Time: Morning}},
		{name: "afternoon", query: AvailabilityQuery{AppointmentType: "exam", Time: Afternoon}},
		{name: "days", query: AvailabilityQuery{AppointmentType: "filling", Days: []string{"monday", "friday"}}},
		{name: "afternoon wednesday", query: AvailabilityQuery{AppointmentType: "followup", Time: Afternoon, Days: []string{"wednesday"}}},
		{name: "saturday", query: AvailabilityQuery{AppointmentType: "followup", Days: []string{"saturday"}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := CheckAvailability(tt.query)
			if len(out.AvailableAppointments) > MaxAvailableSlots {
				t.Fatalf("got %d slots", len(out.AvailableAppointments))
			}
			for _, s := range out.AvailableAppointments {
				hour, err := s.Hour()
				if err != nil {
					t.Fatalf("Hour(%q) error = %v", s.Time, err)
				}
				if tt.query.Time == Morning && hour >= 12 {
					t.Fatalf("morning query returned %s", s.Time)
				}
				if tt.query.Time == Afternoon && hour < 12 {
					t.Fatalf("afternoon query returned %s", s.Time)
				}
				if len(tt.query.Days) > 0 && !containsDay(tt.query.Days, s.Day) {
					t.Fatalf("day filter %v returned %s", tt.query.Days, s.Day)
				}
				if !s.Available {
					t.Fatalf("slot %+v not available", s)
				}
			}
		})
	}
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == strings.ToLower(day) {
			return true
		}
	}
	return false
}

func TestCheckAvailabilityAfternoonUsesClockHour(t *testing.T) {
	t.Parallel()

	out := CheckAvailability(AvailabilityQuery{AppointmentType: "exam", Time: Afternoon})
	if len(out.AvailableAppointments) != 6 {
		t.Fatalf("got %d afternoon slots, want 6", len(out.AvailableAppointments))
	}
	if got := out.AvailableAppointments[0].Time; got != "2:00 PM" {
		t.Fatalf("first afternoon slot = %q", got)
	}
}

func TestCheckAvailabilityDuration(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"cleaning":        "60 minutes",
		"exam":            "45 minutes",
		"consultation":    "30 minutes",
		"filling":         "60 minutes",
		"crown_prep":      "60 minutes",
		"crown_placement": "45 minutes",
		"followup":        "30 minutes",
	}
	for typ, d := range want {
		out := invoke(t, CheckRoutineAvailability(), map[string]any{
			"appointment_type":    typ,
			"preferred_timeframe": "flexible",
		}).(AvailabilityOutput)
		if out.AppointmentDuration != d {
			t.Fatalf("%s duration = %q, want %q", typ, out.AppointmentDuration, d)
		}
		if len(out.AvailableAppointments) != MaxAvailableSlots {
			t.Fatalf("%s: got %d slots", typ, len(out.AvailableAppointments))
		}
	}
}

func TestScheduleAppointment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		typ              string
		newPatient       bool
		reminder         any
		wantDuration     string
		wantInstructions string
		wantReminder     string
	}{
		{name: "returning cleaning", typ: "cleaning", reminder: "text", wantDuration: "60 minutes", wantInstructions: returningNote, wantReminder: "You will receive appointment reminders via text"},
		{name: "new exam", typ: "exam", newPatient: true, reminder: "none", wantDuration: "45 minutes", wantInstructions: newPatientNote, wantReminder: noReminders},
		{name: "consultation", typ: "consultation", wantDuration: "30 minutes", wantInstructions: returningNote, wantReminder: noReminders},
		{name: "unknown type", typ: "whitening", reminder: "email", wantDuration: "60 minutes", wantInstructions: returningNote, wantReminder: "You will receive appointment reminders via email"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := map[string]any{
				"patient_phone":    "(555) 123-4567",
				"patient_name":     "Maria Rodriguez",
				"appointment_type": tt.typ,
				"appointment_date": "2025-01-15",
				"appointment_time": "9:00 AM",
				"is_new_patient":   tt.newPatient,
			}
			if tt.reminder != nil {
				args["reminder_preference"] = tt.reminder
			}
			out := invoke(t, ScheduleAppointment(fixedClock), args).(BookingOutput)
			if out.AppointmentDetails.Duration != tt.wantDuration {
				t.Fatalf("Duration = %q, want %q", out.AppointmentDetails.Duration, tt.wantDuration)
			}
			if out.PreAppointmentInstructions != tt.wantInstructions {
				t.Fatalf("instructions = %q", out.PreAppointmentInstructions)
			}
			if out.ReminderSetup != tt.wantReminder {
				t.Fatalf("ReminderSetup = %q, want %q", out.ReminderSetup, tt.wantReminder)
			}
			if out.AppointmentID != "APPT-1736848800000" {
				t.Fatalf("AppointmentID = %q", out.AppointmentID)
			}
			if out.AppointmentDetails.Date != "Wednesday, January 15, 2025" {
				t.Fatalf("Date = %q", out.AppointmentDetails.Date)
			}
		})
	}
}

func TestLongDateInvalid(t *testing.T) {
	t.Parallel()

	if got := LongDate("next tuesday"); got != "Invalid Date" {
		t.Fatalf("LongDate() = %q", got)
	}
}

func TestScheduleAppointmentRequiresFields(t *testing.T) {
	t.Parallel()

	tl := ScheduleAppointment(fixedClock)
	reg := toolx.MustNewRegistry(contractx.AgentAppointmentSpecialist, tl)
	_, err := reg.Invoke(context.Background(), tl.Name, map[string]any{
		"patient_phone": "(555) 123-4567",
		"patient_name":  "Maria Rodriguez",
	})
	var verr *contractx.ValidationError
	if !errors.As(err, &verr) || verr.Kind != contractx.ValidationMissingField {
		t.Fatalf("Invoke() error = %v, want missing_field", err)
	}
	if verr.Field != "appointment_type" {
		t.Fatalf("Field = %q, want appointment_type", verr.Field)
	}
}

func TestReschedule(t *testing.T) {
	t.Parallel()

	out := invoke(t, RescheduleAppointment(), map[string]any{"patient_phone": "(555) 123-4567"}).(RescheduleOutput)
	if out.CurrentAppointment.Date != "2025-01-20" {
		t.Fatalf("Date = %q", out.CurrentAppointment.Date)
	}
	if len(out.AvailableRescheduleSlots) != 5 {
		t.Fatalf("got %d slots", len(out.AvailableRescheduleSlots))
	}

	out = invoke(t, RescheduleAppointment(), map[string]any{
		"patient_phone":            "(555) 123-4567",
		"current_appointment_date": "2025-01-22",
	}).(RescheduleOutput)
	if out.CurrentAppointment.Date != "2025-01-22" {
		t.Fatalf("Date = %q", out.CurrentAppointment.Date)
	}
}

func TestToolSetsAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, set := range [][]toolx.Tool{ReceptionTools(), EmergencyTools(nil), AppointmentTools(nil)} {
		for _, tl := range set {
			if seen[tl.Name] {
				t.Fatalf("tool %s registered twice", tl.Name)
			}
			seen[tl.Name] = true
		}
	}
	if len(seen) != 7 {
		t.Fatalf("got %d tools, want 7", len(seen))
	}
}
