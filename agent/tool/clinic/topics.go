package clinic

import (
	"fmt"

	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/mockdata"
)

// Topic is the closed set of subjects getBasicInfo answers.
type Topic string

const (
	TopicCleaning   Topic = "cleaning"
	TopicExam       Topic = "exam"
	TopicFilling    Topic = "filling"
	TopicRootCanal  Topic = "root_canal"
	TopicCrown      Topic = "crown"
	TopicExtraction Topic = "extraction"
	TopicHours      Topic = "hours"
	TopicInsurance  Topic = "insurance"
	TopicCost       Topic = "cost"
)

// Topics lists every Topic; the getBasicInfo enum is derived from it and
// InfoFor must answer each member.
var Topics = []Topic{
	TopicCleaning,
	TopicExam,
	TopicFilling,
	TopicRootCanal,
	TopicCrown,
	TopicExtraction,
	TopicHours,
	TopicInsurance,
	TopicCost,
}

type TopicInfo struct {
	Description       string `json:"description"`
	Duration          string `json:"duration,omitempty"`
	Frequency         string `json:"frequency,omitempty"`
	CostRange         string `json:"cost_range,omitempty"`
	InsuranceCoverage string `json:"insurance_coverage,omitempty"`
	Schedule          string `json:"schedule,omitempty"`
	Emergency         string `json:"emergency,omitempty"`
	Accepted          string `json:"accepted,omitempty"`
	Payment           string `json:"payment,omitempty"`
	Note              string `json:"note,omitempty"`
	Consultation      string `json:"consultation,omitempty"`
}

func InfoFor(t Topic) (TopicInfo, bool) {
	switch t {
	case TopicCleaning:
		return procedureInfo("cleaning", "Routine dental cleaning removes plaque and tartar buildup", "45-60 minutes", "Every 6 months recommended"), true
	case TopicExam:
		return procedureInfo("exam", "Comprehensive dental examination with X-rays if needed", "30-45 minutes", "Annually or as recommended"), true
	case TopicFilling:
		return procedureInfo("filling", "Treatment for cavities using composite or amalgam material", "30-60 minutes", "As needed"), true
	case TopicRootCanal:
		return procedureInfo("root_canal", "Treatment for infected tooth pulp to save the tooth", "60-90 minutes", "As needed"), true
	case TopicCrown:
		return procedureInfo("crown", "Protective cap placed over damaged or weakened tooth", "Two visits, 60 minutes each", "As needed"), true
	case TopicExtraction:
		return procedureInfo("extraction", "Tooth removal, simple or surgical depending on case", "30-60 minutes", "As needed"), true
	case TopicHours:
		return TopicInfo{
			Description: "Clinic hours and availability",
			Schedule:    "Monday-Friday: 8:00 AM - 6:00 PM, Saturday: 9:00 AM - 2:00 PM, Sunday: Closed",
			Emergency:   "Emergency line available 24/7 for urgent cases",
		}, true
	case TopicInsurance:
		return TopicInfo{
			Description: "Insurance and payment information",
			Accepted:    "Delta Dental, Cigna, Aetna, MetLife, and most major dental insurance plans",
			Payment:     "Cash, credit cards, CareCredit financing available",
		}, true
	case TopicCost:
		return TopicInfo{
			Description:  "General cost information",
			Note:         "Costs vary based on treatment complexity and insurance coverage",
			Consultation: "Free consultation for new patients",
		}, true
	}
	return TopicInfo{}, false
}

func procedureInfo(procedure, description, duration, frequency string) TopicInfo {
	info := TopicInfo{
		Description: description,
		Duration:    duration,
		Frequency:   frequency,
	}
	if cost, ok := mockdata.ProcedureCost(procedure); ok {
		info.CostRange = fmt.Sprintf("$%d-$%d", cost.Min, cost.Max)
		info.InsuranceCoverage = fmt.Sprintf("%d%% typically covered", cost.InsuranceCovered)
	}
	return info
}

func topicNames() []string {
	out := make([]string, len(Topics))
	for i, t := range Topics {
		out[i] = string(t)
	}
	return out
}
