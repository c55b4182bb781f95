// internal/matching/types.go
package matching

import "time"

// ApplicantProfile is the fixed attribute set the engine scores against.
// Every field is optional; nil means "unknown", which is never treated as a
// failing value.
type ApplicantProfile struct {
	Gender             *string    `json:"gender,omitempty"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	Nationality        *string    `json:"nationality,omitempty"`
	CountryOfResidence *string    `json:"countryOfResidence,omitempty"`
	EducationLevel     *string    `json:"educationLevel,omitempty"`
	FieldOfStudy       *string    `json:"fieldOfStudy,omitempty"`
	GPA                *float64   `json:"gpa,omitempty"`
	FinancialNeed      *bool      `json:"financialNeed,omitempty"`
}

// Criteria describes one scholarship's eligibility requirements. Empty lists
// and nil pointers leave the corresponding dimension unrestricted. The
// free-text fields are fallbacks used only when the structured lists are
// absent.
type Criteria struct {
	EligibleGenders         []string `json:"eligibleGenders,omitempty"`
	MinAge                  *int     `json:"minAge,omitempty"`
	MaxAge                  *int     `json:"maxAge,omitempty"`
	EligibleNationalities   []string `json:"eligibleNationalities,omitempty"`
	EligibleCountries       []string `json:"eligibleCountries,omitempty"`
	EligibleEducationLevels []string `json:"eligibleEducationLevels,omitempty"`
	EligibleFields          []string `json:"eligibleFields,omitempty"`
	MinGPA                  *float64 `json:"minGpa,omitempty"`
	FinancialNeedRequired   *bool    `json:"financialNeedRequired,omitempty"`
	Description             string   `json:"description,omitempty"`
	Category                string   `json:"category,omitempty"`
	Location                string   `json:"location,omitempty"`
}

// Detail is one scored dimension of a match evaluation.
type Detail struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Reason   string  `json:"reason"`
}

// Result is the outcome of evaluating one profile against one scholarship.
// MatchScore is forced to 0 whenever IsEligible is false; MatchDetails keeps
// the un-zeroed per-dimension values so the caller can still explain the
// breakdown.
type Result struct {
	MatchScore           int      `json:"matchScore"`
	IsEligible           bool     `json:"isEligible"`
	MatchDetails         []Detail `json:"matchDetails"`
	IneligibilityReasons []string `json:"ineligibilityReasons"`
}
