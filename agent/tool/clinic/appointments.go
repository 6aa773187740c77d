package clinic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/mockdata"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
)

// MaxAvailableSlots caps the slots returned by one availability lookup.
const MaxAvailableSlots = 6

const (
	defaultDuration   = 60
	bookingNote       = "Please let me know which time works best for you."
	cancellationNote  = "Please provide at least 24 hours notice for cancellations to avoid fees."
	reschedulingNote  = "Which of these new times would work better for you?"
	invalidDate       = "Invalid Date"
	newPatientNote    = "Please arrive 30 minutes early to complete new patient paperwork. Bring your insurance card, ID, and a list of current medications."
	returningNote     = "Please arrive 15 minutes early for check-in. Bring your insurance card and ID."
	noReminders       = "No reminders will be sent"
	slotTimeLayout    = "3:04 PM"
	bookingDateLayout = "2006-01-02"
	longDateLayout    = "Monday, January 2, 2006"
)

var appointmentTypes = []string{
	"cleaning", "exam", "consultation", "filling", "crown_prep", "crown_placement", "followup",
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// availabilityMinutes is consulted by the availability lookup.
var availabilityMinutes = map[string]int{
	"cleaning":        60,
	"exam":            45,
	"consultation":    30,
	"filling":         60,
	"crown_prep":      60,
	"crown_placement": 45,
	"followup":        30,
}

// bookingMinutes is consulted by booking; unknown types get defaultDuration.
var bookingMinutes = map[string]int{
	"cleaning":     60,
	"exam":         45,
	"consultation": 30,
}

func minutes(n int) string {
	return fmt.Sprintf("%d minutes", n)
}

// BookingDuration returns the booked duration for an appointment type.
func BookingDuration(appointmentType string) string {
	if n, ok := bookingMinutes[appointmentType]; ok {
		return minutes(n)
	}
	return minutes(defaultDuration)
}

type Slot struct {
	Date string `json:"date"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Hour returns the 24-hour clock hour of the slot.
func (s Slot) Hour() (int, error) {
	t, err := time.Parse(slotTimeLayout, s.Time)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}

type AvailableSlot struct {
	Slot
	Available bool `json:"available"`
}

var routineSlots = []Slot{
	{Date: "2025-01-15", Day: "Wednesday", Time: "9:00 AM"},
	{Date: "2025-01-15", Day: "Wednesday", Time: "2:00 PM"},
	{Date: "2025-01-16", Day: "Thursday", Time: "10:30 AM"},
	{Date: "2025-01-16", Day: "Thursday", Time: "3:00 PM"},
	{Date: "2025-01-17", Day: "Friday", Time: "8:30 AM"},
	{Date: "2025-01-17", Day: "Friday", Time: "1:30 PM"},
	{Date: "2025-01-20", Day: "Monday", Time: "9:30 AM"},
	{Date: "2025-01-20", Day: "Monday", Time: "4:00 PM"},
	{Date: "2025-01-21", Day: "Tuesday", Time: "11:00 AM"},
	{Date: "2025-01-21", Day: "Tuesday", Time: "2:30 PM"},
	{Date: "2025-01-22", Day: "Wednesday", Time: "10:00 AM"},
	{Date: "2025-01-23", Day: "Thursday", Time: "9:00 AM"},
	{Date: "2025-01-24", Day: "Friday", Time: "3:30 PM"},
}

var rescheduleSlots = []Slot{
	{Date: "2025-01-22", Day: "Wednesday", Time: "9:00 AM"},
	{Date: "2025-01-22", Day: "Wednesday", Time: "2:00 PM"},
	{Date: "2025-01-23", Day: "Thursday", Time: "10:30 AM"},
	{Date: "2025-01-24", Day: "Friday", Time: "1:30 PM"},
	{Date: "2025-01-27", Day: "Monday", Time: "9:30 AM"},
}

type TimePreference string

const (
	Morning      TimePreference = "morning"
	Afternoon    TimePreference = "afternoon"
	NoPreference TimePreference = "no_preference"
)

// AvailabilityQuery filters the routine slot list. An empty Days set
// matches every day.
type AvailabilityQuery struct {
	AppointmentType string
	Timeframe       string
	Time            TimePreference
	Days            []string
}

func (q AvailabilityQuery) matches(s Slot) bool {
	if q.Time == Morning || q.Time == Afternoon {
		hour, err := s.Hour()
		if err != nil {
			return false
		}
		if (q.Time == Morning) != (hour < 12) {
			return false
		}
	}
	if len(q.Days) == 0 {
		return true
	}
	day := strings.ToLower(s.Day)
	for _, d := range q.Days {
		if d == day {
			return true
		}
	}
	return false
}

type AvailabilityOutput struct {
	AvailableAppointments []AvailableSlot `json:"available_appointments"`
	AppointmentDuration   string          `json:"appointment_duration,omitempty"`
	BookingNote           string          `json:"booking_note"`
}

func CheckAvailability(q AvailabilityQuery) AvailabilityOutput {
	out := AvailabilityOutput{
		AvailableAppointments: make([]AvailableSlot, 0, MaxAvailableSlots),
		BookingNote:           bookingNote,
	}
	for _, s := range routineSlots {
		if len(out.AvailableAppointments) == MaxAvailableSlots {
			break
		}
		if q.matches(s) {
			out.AvailableAppointments = append(out.AvailableAppointments, AvailableSlot{Slot: s, Available: true})
		}
	}
	if n, ok := availabilityMinutes[q.AppointmentType]; ok {
		out.AppointmentDuration = minutes(n)
	}
	return out
}

func CheckRoutineAvailability() toolx.Tool {
	return toolx.Tool{
		Name:        ToolCheckRoutineAvailability,
		Description: "Check available appointment slots for routine dental services.",
		Schema: toolx.NewSchema(
			toolx.String("appointment_type", "Type of routine appointment").OneOf(appointmentTypes...).Require(),
			toolx.String("preferred_timeframe", "When patient would like to be seen").
				OneOf("this_week", "next_week", "next_two_weeks", "next_month", "flexible").Require(),
			toolx.String("time_preference", "Time of day preference").
				OneOf(string(Morning), string(Afternoon), string(NoPreference)),
			toolx.StringArray("day_preferences", "Preferred days of the week", weekdays...),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			return CheckAvailability(AvailabilityQuery{
				AppointmentType: args.String("appointment_type"),
				Timeframe:       args.String("preferred_timeframe"),
				Time:            TimePreference(args.String("time_preference")),
				Days:            args.Strings("day_preferences"),
			}), nil
		},
	}
}

type Booking struct {
	PatientPhone       string
	PatientName        string
	AppointmentType    string
	Date               string
	Time               string
	NewPatient         bool
	InsuranceProvider  string
	ReminderPreference string
}

type AppointmentDetails struct {
	Patient  string `json:"patient"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Provider string `json:"provider"`
	Duration string `json:"duration"`
}

type ClinicInfo struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Parking string `json:"parking"`
}

type BookingOutput struct {
	AppointmentID              string             `json:"appointment_id"`
	Confirmation               string             `json:"confirmation"`
	AppointmentDetails         AppointmentDetails `json:"appointment_details"`
	PreAppointmentInstructions string             `json:"pre_appointment_instructions"`
	ClinicInfo                 ClinicInfo         `json:"clinic_info"`
	ReminderSetup              string             `json:"reminder_setup"`
}

// LongDate renders a YYYY-MM-DD date as "Wednesday, January 15, 2025".
func LongDate(date string) string {
	t, err := time.Parse(bookingDateLayout, date)
	if err != nil {
		return invalidDate
	}
	return t.Format(longDateLayout)
}

func PreAppointmentInstructions(newPatient bool) string {
	if newPatient {
		return newPatientNote
	}
	return returningNote
}

func ReminderSetup(preference string) string {
	if preference == "" || preference == "none" {
		return noReminders
	}
	return "You will receive appointment reminders via " + preference
}

func (b Booking) Confirm(appointmentID string) BookingOutput {
	date := LongDate(b.Date)
	return BookingOutput{
		AppointmentID: appointmentID,
		Confirmation: fmt.Sprintf("Appointment confirmed for %s on %s at %s for %s",
			b.PatientName, date, b.Time, b.AppointmentType),
		AppointmentDetails: AppointmentDetails{
			Patient:  b.PatientName,
			Date:     date,
			Time:     b.Time,
			Type:     b.AppointmentType,
			Provider: mockdata.Provider,
			Duration: BookingDuration(b.AppointmentType),
		},
		PreAppointmentInstructions: PreAppointmentInstructions(b.NewPatient),
		ClinicInfo: ClinicInfo{
			Address: mockdata.ClinicAddress,
			Phone:   ClinicPhone,
			Parking: ClinicParking,
		},
		ReminderSetup: ReminderSetup(b.ReminderPreference),
	}
}

func ScheduleAppointment(now Clock) toolx.Tool {
	now = orNow(now)
	return toolx.Tool{
		Name:        ToolScheduleAppointment,
		Description: "Book a routine dental appointment.",
		Schema: toolx.NewSchema(
			toolx.String("patient_phone", "Patient phone number").Require(),
			toolx.String("patient_name", "Patient full name").Require(),
			toolx.String("appointment_type", "Type of appointment being scheduled").Require(),
			toolx.String("appointment_date", "Selected appointment date (YYYY-MM-DD)").Require(),
			toolx.String("appointment_time", "Selected appointment time (e.g., 9:00 AM)").Require(),
			toolx.Boolean("is_new_patient", "Whether this is a new patient"),
			toolx.String("insurance_provider", "Patient insurance provider (if known)"),
			toolx.String("reminder_preference", "How patient prefers to receive appointment reminders").
				OneOf("text", "email", "phone", "none"),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			b := Booking{
				PatientPhone:       args.String("patient_phone"),
				PatientName:        args.String("patient_name"),
				AppointmentType:    args.String("appointment_type"),
				Date:               args.String("appointment_date"),
				Time:               args.String("appointment_time"),
				NewPatient:         args.Bool("is_new_patient"),
				InsuranceProvider:  args.String("insurance_provider"),
				ReminderPreference: args.String("reminder_preference"),
			}
			return b.Confirm(stampID("APPT", now)), nil
		},
	}
}

type CurrentAppointment struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	PatientName   string `json:"patient_name"`
}

type RescheduleOutput struct {
	CurrentAppointment       CurrentAppointment `json:"current_appointment"`
	AvailableRescheduleSlots []Slot             `json:"available_reschedule_slots"`
	CancellationPolicy       string             `json:"cancellation_policy"`
	ReschedulingNote         string             `json:"rescheduling_note"`
}

func Reschedule(currentDate string) RescheduleOutput {
	if currentDate == "" {
		currentDate = "2025-01-20"
	}
	slots := make([]Slot, len(rescheduleSlots))
	copy(slots, rescheduleSlots)
	return RescheduleOutput{
		CurrentAppointment: CurrentAppointment{
			AppointmentID: "APPT-12345",
			Date:          currentDate,
			Time:          "10:00 AM",
			Type:          "cleaning",
			PatientName:   "Maria Rodriguez",
		},
		AvailableRescheduleSlots: slots,
		CancellationPolicy:       cancellationNote,
		ReschedulingNote:         reschedulingNote,
	}
}

func RescheduleAppointment() toolx.Tool {
	return toolx.Tool{
		Name:        ToolRescheduleAppointment,
		Description: "Reschedule an existing appointment.",
		Schema: toolx.NewSchema(
			toolx.String("patient_phone", "Patient phone number to look up existing appointment").Require(),
			toolx.String("current_appointment_date", "Current appointment date to reschedule"),
			toolx.String("new_preferred_timeframe", "When patient would like to reschedule to").
				OneOf("this_week", "next_week", "next_two_weeks", "flexible"),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			return Reschedule(args.String("current_appointment_date")), nil
		},
	}
}
