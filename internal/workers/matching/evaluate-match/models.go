// internal/workers/matching/evaluate-match/models.go
package evaluatematch

import "scholarship-workers/internal/matching"

type Input struct {
	UserID           string            `json:"userId"`
	ScholarshipData  ScholarshipData   `json:"scholarshipData"`
	ApplicantProfile *ApplicantProfile `json:"applicantProfile,omitempty"`
}

// ApplicantProfile is the wire form of a profile: dates travel as strings
// ("2006-01-02" or RFC 3339) and every field is optional.
type ApplicantProfile struct {
	Gender             *string  `json:"gender,omitempty"`
	DateOfBirth        *string  `json:"dateOfBirth,omitempty"`
	Nationality        *string  `json:"nationality,omitempty"`
	CountryOfResidence *string  `json:"countryOfResidence,omitempty"`
	EducationLevel     *string  `json:"educationLevel,omitempty"`
	FieldOfStudy       *string  `json:"fieldOfStudy,omitempty"`
	GPA                *float64 `json:"gpa,omitempty"`
	FinancialNeed      *bool    `json:"financialNeed,omitempty"`
}

type ScholarshipData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	matching.Criteria
}

type Output struct {
	ScholarshipID        string            `json:"scholarshipId"`
	MatchScore           int               `json:"matchScore"`
	IsEligible           bool              `json:"isEligible"`
	MatchDetails         []matching.Detail `json:"matchDetails"`
	IneligibilityReasons []string          `json:"ineligibilityReasons"`
}
