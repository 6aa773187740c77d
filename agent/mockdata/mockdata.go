// Package mockdata holds the static clinic tables the tools read from.
// Nothing in this package is mutated after init; lookups return copies.
package mockdata

import "strings"

type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
	GroupNumber  string `json:"group_number"`
}

type MedicalHistory struct {
	Allergies   []string `json:"allergies"`
	Medications []string `json:"medications"`
	Conditions  []string `json:"conditions"`
}

type DentalHistory struct {
	LastCleaning    string `json:"last_cleaning"`
	LastExam        string `json:"last_exam"`
	NextCleaningDue string `json:"next_cleaning_due"`
	Notes           string `json:"notes"`
}

type CommunicationPreferences struct {
	ReminderMethod string `json:"reminder_method"`
	Language       string `json:"language"`
}

type Patient struct {
	ID                       string                   `json:"id"`
	Name                     string                   `json:"name"`
	Phone                    string                   `json:"phone"`
	Email                    string                   `json:"email"`
	DateOfBirth              string                   `json:"date_of_birth"`
	Address                  string                   `json:"address"`
	Insurance                Insurance                `json:"insurance"`
	MedicalHistory           MedicalHistory           `json:"medical_history"`
	DentalHistory            DentalHistory            `json:"dental_history"`
	CommunicationPreferences CommunicationPreferences `json:"communication_preferences"`
}

type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Duration    int    `json:"duration"`
	Status      string `json:"status"`
	Provider    string `json:"provider"`
	Notes       string `json:"notes"`
}

// Cost is a price range in whole dollars with the typical insurance coverage
// percentage.
type Cost struct {
	Min              int `json:"min"`
	Max              int `json:"max"`
	InsuranceCovered int `json:"insurance_covered"`
}

type EmergencyScenario struct {
	ID                string `json:"id"`
	Symptoms          string `json:"symptoms"`
	PainLevel         int    `json:"pain_level"`
	Severity          int    `json:"severity"`
	RecommendedAction string `json:"recommended_action"`
	CareInstructions  string `json:"care_instructions"`
}

const (
	Provider      = "Dr. Estrabillo"
	ClinicAddress = "123 Dental Plaza, Suite 200, Your City, State 12345"
)

var patients = []Patient{
	{
		ID:          "P001",
		Name:        "Maria Rodriguez",
		Phone:       "(555) 123-4567",
		Email:       "maria.rodriguez@email.com",
		DateOfBirth: "1985-03-15",
		Address:     "123 Oak Street, Springfield, IL 62701",
		Insurance:   Insurance{Provider: "Delta Dental", PolicyNumber: "DD123456789", GroupNumber: "GRP001"},
		MedicalHistory: MedicalHistory{
			Allergies:   []string{"Penicillin"},
			Medications: []string{"Lisinopril"},
			Conditions:  []string{"Hypertension"},
		},
		DentalHistory: DentalHistory{
			LastCleaning:    "2024-10-15",
			LastExam:        "2024-10-15",
			NextCleaningDue: "2025-04-15",
			Notes:           "Prefers morning appointments, has dental anxiety, needs gentle approach",
		},
		CommunicationPreferences: CommunicationPreferences{ReminderMethod: "text", Language: "English"},
	},
	{
		ID:          "P002",
		Name:        "John Smith",
		Phone:       "(555) 234-5678",
		Email:       "john.smith@email.com",
		DateOfBirth: "1978-07-22",
		Address:     "456 Maple Avenue, Springfield, IL 62702",
		Insurance:   Insurance{Provider: "Cigna", PolicyNumber: "CG987654321", GroupNumber: "GRP002"},
		MedicalHistory: MedicalHistory{
			Allergies:   []string{},
			Medications: []string{},
			Conditions:  []string{},
		},
		DentalHistory: DentalHistory{
			LastCleaning:    "2024-11-20",
			LastExam:        "2024-11-20",
			NextCleaningDue: "2025-05-20",
			Notes:           "Regular patient, no special accommodations needed",
		},
		CommunicationPreferences: CommunicationPreferences{ReminderMethod: "email", Language: "English"},
	},
	{
		ID:          "P003",
		Name:        "Sarah Johnson",
		Phone:       "(555) 345-6789",
		Email:       "sarah.johnson@email.com",
		DateOfBirth: "1992-12-08",
		Address:     "789 Pine Road, Springfield, IL 62703",
		Insurance:   Insurance{Provider: "Aetna", PolicyNumber: "AE456789123", GroupNumber: "GRP003"},
		MedicalHistory: MedicalHistory{
			Allergies:   []string{"Latex"},
			Medications: []string{"Birth control"},
			Conditions:  []string{},
		},
		DentalHistory: DentalHistory{
			LastCleaning:    "2024-09-30",
			LastExam:        "2024-09-30",
			NextCleaningDue: "2025-03-30",
			Notes:           "Requires sedation for procedures, latex allergy - use non-latex gloves",
		},
		CommunicationPreferences: CommunicationPreferences{ReminderMethod: "phone", Language: "English"},
	},
	{
		ID:          "P004",
		Name:        "Carlos Mendoza",
		Phone:       "(555) 456-7890",
		Email:       "carlos.mendoza@email.com",
		DateOfBirth: "1980-05-12",
		Address:     "321 Elm Street, Springfield, IL 62704",
		Insurance:   Insurance{Provider: "MetLife", PolicyNumber: "ML789123456", GroupNumber: "GRP004"},
		MedicalHistory: MedicalHistory{
			Allergies:   []string{},
			Medications: []string{"Metformin"},
			Conditions:  []string{"Type 2 Diabetes"},
		},
		DentalHistory: DentalHistory{
			LastCleaning:    "2024-08-15",
			LastExam:        "2024-08-15",
			NextCleaningDue: "2025-02-15",
			Notes:           "Diabetic patient - monitor for gum disease, prefers Spanish communication",
		},
		CommunicationPreferences: CommunicationPreferences{ReminderMethod: "text", Language: "Spanish"},
	},
	{
		ID:          "P005",
		Name:        "Jennifer Chen",
		Phone:       "(555) 567-8901",
		Email:       "jennifer.chen@email.com",
		DateOfBirth: "1995-09-03",
		Address:     "654 Birch Lane, Springfield, IL 62705",
		Insurance:   Insurance{Provider: "Guardian", PolicyNumber: "GU321654987", GroupNumber: "GRP005"},
		MedicalHistory: MedicalHistory{
			Allergies:   []string{"Codeine"},
			Medications: []string{},
			Conditions:  []string{},
		},
		DentalHistory: DentalHistory{
			LastCleaning:    "2024-12-01",
			LastExam:        "2024-12-01",
			NextCleaningDue: "2025-06-01",
			Notes:           "Young professional, prefers evening appointments, excellent oral hygiene",
		},
		CommunicationPreferences: CommunicationPreferences{ReminderMethod: "email", Language: "English"},
	},
}

var appointments = []Appointment{
	{ID: "APPT-001", PatientID: "P001", PatientName: "Maria Rodriguez", Date: "2025-01-20", Time: "9:00 AM", Type: "cleaning", Duration: 60, Status: "scheduled", Provider: Provider, Notes: "Regular cleaning, patient has dental anxiety"},
	{ID: "APPT-002", PatientID: "P002", PatientName: "John Smith", Date: "2025-01-22", Time: "2:00 PM", Type: "exam", Duration: 45, Status: "scheduled", Provider: Provider, Notes: "Annual exam"},
	{ID: "APPT-003", PatientID: "P003", PatientName: "Sarah Johnson", Date: "2025-01-24", Time: "10:00 AM", Type: "filling", Duration: 90, Status: "scheduled", Provider: Provider, Notes: "Composite filling, upper left molar, sedation required"},
	{ID: "APPT-004", PatientID: "P004", PatientName: "Carlos Mendoza", Date: "2025-01-15", Time: "3:00 PM", Type: "consultation", Duration: 30, Status: "scheduled", Provider: Provider, Notes: "Crown consultation, Spanish interpreter if needed"},
	{ID: "APPT-005", PatientID: "P005", PatientName: "Jennifer Chen", Date: "2025-01-28", Time: "5:30 PM", Type: "cleaning", Duration: 60, Status: "scheduled", Provider: Provider, Notes: "Evening appointment as requested"},
}

var procedureCosts = map[string]Cost{
	"cleaning":     {Min: 75, Max: 150, InsuranceCovered: 80},
	"exam":         {Min: 100, Max: 200, InsuranceCovered: 90},
	"consultation": {Min: 50, Max: 100, InsuranceCovered: 70},
	"filling":      {Min: 150, Max: 400, InsuranceCovered: 60},
	"crown":        {Min: 800, Max: 2000, InsuranceCovered: 50},
	"root_canal":   {Min: 800, Max: 1500, InsuranceCovered: 60},
	"extraction":   {Min: 150, Max: 600, InsuranceCovered: 70},
	"whitening":    {Min: 300, Max: 800, InsuranceCovered: 0},
	"implant":      {Min: 2000, Max: 5000, InsuranceCovered: 30},
}

var emergencyScenarios = []EmergencyScenario{
	{ID: "EMG-001", Symptoms: "Severe toothache, throbbing pain", PainLevel: 8, Severity: 8, RecommendedAction: "same_day_emergency", CareInstructions: "Take ibuprofen, apply cold compress, avoid hot/cold foods"},
	{ID: "EMG-002", Symptoms: "Knocked out tooth from sports injury", PainLevel: 6, Severity: 9, RecommendedAction: "immediate_emergency", CareInstructions: "Keep tooth in milk, come in immediately for best chance of saving tooth"},
	{ID: "EMG-003", Symptoms: "Lost filling, mild sensitivity", PainLevel: 3, Severity: 4, RecommendedAction: "urgent_appointment", CareInstructions: "Avoid chewing on that side, use temporary filling material if available"},
}

// PatientByPhone returns the patient whose phone matches exactly.
func PatientByPhone(phone string) (Patient, bool) {
	for _, p := range patients {
		if p.Phone == phone {
			return clonePatient(p), true
		}
	}
	return Patient{}, false
}

// PatientByName returns the first patient whose name contains fragment,
// ignoring case. An empty fragment never matches.
func PatientByName(fragment string) (Patient, bool) {
	needle := strings.ToLower(fragment)
	if needle == "" {
		return Patient{}, false
	}
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return clonePatient(p), true
		}
	}
	return Patient{}, false
}

func Patients() []Patient {
	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		out = append(out, clonePatient(p))
	}
	return out
}

func Appointments() []Appointment {
	return append([]Appointment(nil), appointments...)
}

func AppointmentsForPatient(patientID string) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out
}

func ProcedureCost(procedure string) (Cost, bool) {
	c, ok := procedureCosts[procedure]
	return c, ok
}

func ProcedureCosts() map[string]Cost {
	out := make(map[string]Cost, len(procedureCosts))
	for k, v := range procedureCosts {
		out[k] = v
	}
	return out
}

func EmergencyScenarios() []EmergencyScenario {
	return append([]EmergencyScenario(nil), emergencyScenarios...)
}

func clonePatient(p Patient) Patient {
	p.MedicalHistory.Allergies = append([]string{}, p.MedicalHistory.Allergies...)
	p.MedicalHistory.Medications = append([]string{}, p.MedicalHistory.Medications...)
	p.MedicalHistory.Conditions = append([]string{}, p.MedicalHistory.Conditions...)
	return p
}
