// internal/models/scholarship.go
package models

type Scholarship struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Provider         string   `json:"provider"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Location         string   `json:"location"`
	AmountMin        int      `json:"amountMin"`
	AmountMax        int      `json:"amountMax"`
	Currency         string   `json:"currency"`
	Deadline         string   `json:"deadline"`
	IsVerified       bool     `json:"isVerified"`
	ApplicationCount int      `json:"applicationCount"`
	ViewCount        int      `json:"viewCount"`
	Tags             []string `json:"tags,omitempty"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// ScholarshipCriteria mirrors the eligibility columns of the scholarships
// table. Empty slices and nil pointers mean the scholarship does not
// constrain that dimension.
type ScholarshipCriteria struct {
	ScholarshipID           string   `json:"scholarshipId"`
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

type SavedScholarship struct {
	UserID        string `json:"userId"`
	ScholarshipID string `json:"scholarshipId"`
	SavedAt       string `json:"savedAt"`
}
