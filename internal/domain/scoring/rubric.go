package scoring

import (
	"fmt"
	"strings"
)

// Rubric is the ordered list of fields that defines a complete record.
type Rubric []string

// Rubric preset names.
const (
	PresetBroad  = "broad"
	PresetNarrow = "narrow"
)

var broadFields = []string{
	"PatientName", "Age", "GenderDisplay", "ABHANumber", "IsFollowUp",
	"SentByLocationName", "SentByName", "SentToLocationName", "SentToName",
	"SentToSpecialityDisplay", "ConsultationCreatedDate", "ConsultationStatus",
	"StartDate", "CloseDate", "Snomed FamilyHistory", "Snomed MedicalHistory",
	"Snomed PersonalHistory", "Additional MedicalHistory", "Snomed Allergy",
	"AdditionalAllergy", "Snomed Active Medicine", "Diagnostics",
	"AdditionalDiagnostics", "Query", "Additional Medicine",
	"Provisional Diagnosis", "Additional Diagnosis", "Snomed Medicine",
	"Advice", "Symptoms_", "DifferentialDiagnosis_",
}

var narrowFields = []string{
	"PatientName", "Age", "GenderDisplay", "SentToSpecialityDisplay",
	"Symptoms_", "Provisional Diagnosis", "Advice", "Snomed Medicine",
}

// BroadRubric returns the full consultation rubric. It is the default.
func BroadRubric() Rubric { return append(Rubric(nil), broadFields...) }

// NarrowRubric returns the short clinical-essentials rubric.
func NarrowRubric() Rubric { return append(Rubric(nil), narrowFields...) }

// RubricByName resolves a preset name, case-insensitively.
func RubricByName(name string) (Rubric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetBroad:
		return BroadRubric(), nil
	case PresetNarrow:
		return NarrowRubric(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// NewRubric builds a rubric from an explicit field list, dropping blanks and
// repeated names while keeping order.
func NewRubric(fields []string) Rubric {
	seen := make(map[string]struct{}, len(fields))
	r := make(Rubric, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		r = append(r, f)
	}
	return r
}
