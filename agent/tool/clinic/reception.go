package clinic

import (
	"context"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/mockdata"
	toolx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/tool"
)

const patientNotFoundMessage = "No patient found with that information. They may be a new patient."

type PatientSummary struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	LastVisit       string `json:"last_visit"`
	NextCleaningDue string `json:"next_cleaning_due"`
	Insurance       string `json:"insurance"`
	Notes           string `json:"notes"`
}

type LookupPatientOutput struct {
	Found   bool            `json:"found"`
	Patient *PatientSummary `json:"patient,omitempty"`
	Message string          `json:"message,omitempty"`
}

func LookupPatient() toolx.Tool {
	return toolx.Tool{
		Name:        ToolLookupPatient,
		Description: "Look up existing patient information by phone number or name.",
		Schema: toolx.NewSchema(
			toolx.String("phone_number", "Patient phone number in format (xxx) xxx-xxxx"),
			toolx.String("patient_name", "Patient full name if phone number not available"),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			return lookupPatient(args.String("phone_number"), args.String("patient_name")), nil
		},
	}
}

// lookupPatient matches by phone when one is given and falls back to the
// name only when no phone was supplied.
func lookupPatient(phone, name string) LookupPatientOutput {
	var (
		p  mockdata.Patient
		ok bool
	)
	switch {
	case phone != "":
		p, ok = mockdata.PatientByPhone(phone)
	case name != "":
		p, ok = mockdata.PatientByName(name)
	}
	if !ok {
		return LookupPatientOutput{Found: false, Message: patientNotFoundMessage}
	}
	return LookupPatientOutput{
		Found: true,
		Patient: &PatientSummary{
			Name:            p.Name,
			Phone:           p.Phone,
			LastVisit:       p.DentalHistory.LastCleaning,
			NextCleaningDue: p.DentalHistory.NextCleaningDue,
			Insurance:       p.Insurance.Provider,
			Notes:           p.DentalHistory.Notes,
		},
	}
}

func GetBasicInfo() toolx.Tool {
	return toolx.Tool{
		Name:        ToolGetBasicInfo,
		Description: "Provide general information about dental procedures and clinic policies.",
		Schema: toolx.NewSchema(
			toolx.String("topic", "The topic the patient is asking about").OneOf(topicNames()...).Require(),
		),
		Handler: func(_ context.Context, args toolx.Args) (any, error) {
			info, ok := InfoFor(Topic(args.String("topic")))
			if !ok {
				return map[string]string{"error": "Information not available"}, nil
			}
			return info, nil
		},
	}
}
