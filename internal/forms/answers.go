package forms

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Answers is the typed application form. The schema is fixed: required
// fields drive the submission guard, optional fields are free-form extras.
// Numbers and booleans are pointers so "not answered" stays distinguishable
// from a zero value.
type Answers struct {
	FullName              string   `json:"fullName"`
	StudentID             string   `json:"studentId"`
	Email                 string   `json:"email" validate:"omitempty,email"`
	Phone                 string   `json:"phone"`
	DateOfBirth           string   `json:"dateOfBirth"`
	Faculty               string   `json:"faculty"`
	FieldOfStudy          string   `json:"fieldOfStudy"`
	YearOfStudy           *int     `json:"yearOfStudy,omitempty" validate:"omitempty,min=1,max=8"`
	Motivation            string   `json:"motivation"`
	Expectations          string   `json:"expectations"`
	PreviousExperience    string   `json:"previousExperience"`
	Skills                []string `json:"skills,omitempty"`
	FirstCommitteeChoice  string   `json:"firstCommitteeChoice"`
	SecondCommitteeChoice string   `json:"secondCommitteeChoice"`
	AvailabilityHours     *float64 `json:"availabilityHours,omitempty" validate:"omitempty,min=0"`
	ReferralSource        string   `json:"referralSource"`
	AgreeToRules          *bool    `json:"agreeToRules,omitempty"`

	// Optional extras, never required for submission.
	Instagram    string `json:"instagram,omitempty"`
	PortfolioURL string `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
	Notes        string `json:"notes,omitempty"`
}

// Canonical field identifiers. Missing-field reporting follows
// RequiredFields order, never map iteration order.
const (
	FieldFullName              = "fullName"
	FieldStudentID             = "studentId"
	FieldEmail                 = "email"
	FieldPhone                 = "phone"
	FieldDateOfBirth           = "dateOfBirth"
	FieldFaculty               = "faculty"
	FieldFieldOfStudy          = "fieldOfStudy"
	FieldYearOfStudy           = "yearOfStudy"
	FieldMotivation            = "motivation"
	FieldExpectations          = "expectations"
	FieldPreviousExperience    = "previousExperience"
	FieldSkills                = "skills"
	FieldFirstCommitteeChoice  = "firstCommitteeChoice"
	FieldSecondCommitteeChoice = "secondCommitteeChoice"
	FieldAvailabilityHours     = "availabilityHours"
	FieldReferralSource        = "referralSource"
	FieldAgreeToRules          = "agreeToRules"
)

// RequiredFields is the canonical ordered list of fields a submission must
// answer.
var RequiredFields = []string{
	FieldFullName,
	FieldStudentID,
	FieldEmail,
	FieldPhone,
	FieldDateOfBirth,
	FieldFaculty,
	FieldFieldOfStudy,
	FieldYearOfStudy,
	FieldMotivation,
	FieldExpectations,
	FieldPreviousExperience,
	FieldSkills,
	FieldFirstCommitteeChoice,
	FieldSecondCommitteeChoice,
	FieldAvailabilityHours,
	FieldReferralSource,
	FieldAgreeToRules,
}

// fieldValue maps a canonical identifier to the answered value. Pointer
// fields dereference to nil when unanswered.
func (a Answers) fieldValue(name string) any {
	switch name {
	case FieldFullName:
		return a.FullName
	case FieldStudentID:
		return a.StudentID
	case FieldEmail:
		return a.Email
	case FieldPhone:
		return a.Phone
	case FieldDateOfBirth:
		return a.DateOfBirth
	case FieldFaculty:
		return a.Faculty
	case FieldFieldOfStudy:
		return a.FieldOfStudy
	case FieldYearOfStudy:
		if a.YearOfStudy == nil {
			return nil
		}
		return *a.YearOfStudy
	case FieldMotivation:
		return a.Motivation
	case FieldExpectations:
		return a.Expectations
	case FieldPreviousExperience:
		return a.PreviousExperience
	case FieldSkills:
		return a.Skills
	case FieldFirstCommitteeChoice:
		return a.FirstCommitteeChoice
	case FieldSecondCommitteeChoice:
		return a.SecondCommitteeChoice
	case FieldAvailabilityHours:
		if a.AvailabilityHours == nil {
			return nil
		}
		return *a.AvailabilityHours
	case FieldReferralSource:
		return a.ReferralSource
	case FieldAgreeToRules:
		if a.AgreeToRules == nil {
			return nil
		}
		return *a.AgreeToRules
	}
	return nil
}

// Value serializes the answers as jsonb.
func (a Answers) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	return string(b), nil
}

// Scan deserializes a jsonb column.
func (a *Answers) Scan(value interface{}) error {
	if value == nil {
		*a = Answers{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for answers column")
	}
	return json.Unmarshal(data, a)
}
