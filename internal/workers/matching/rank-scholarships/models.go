// internal/workers/matching/rank-scholarships/models.go
package rankscholarships

import "scholarship-workers/internal/matching"

type Input struct {
	ApplicantProfile *ApplicantProfile `json:"applicantProfile,omitempty"`
	Scholarships     []ScholarshipItem `json:"scholarships"`
}

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

// ScholarshipItem is one candidate to rank: identity, the raw search
// relevance score when the list came from Elasticsearch, popularity counters
// and the eligibility criteria for the match engine.
type ScholarshipItem struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	SearchScore      float64 `json:"searchScore,omitempty"`
	Deadline         string  `json:"deadline,omitempty"`
	ApplicationCount int     `json:"applicationCount,omitempty"`
	ViewCount        int     `json:"viewCount,omitempty"`
	matching.Criteria
}

type RankedScholarship struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	FinalScore           float64  `json:"finalScore"`
	MatchScore           int      `json:"matchScore"`
	IsEligible           bool     `json:"isEligible"`
	SearchScore          float64  `json:"searchScore"`
	UrgencyScore         float64  `json:"urgencyScore"`
	PopularityScore      float64  `json:"popularityScore"`
	IneligibilityReasons []string `json:"ineligibilityReasons,omitempty"`
}

type Output struct {
	RankedScholarships []RankedScholarship `json:"rankedScholarships"`
}
