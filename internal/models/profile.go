// internal/models/profile.go
package models

// StudentProfile is the platform-level profile record as stored in PostgreSQL
// and cached in Redis. Optional fields use pointers so that "not provided"
// survives a JSON round trip.
type StudentProfile struct {
	UserID           string   `json:"userId" db:"user_id"`
	FullName         string   `json:"fullName" db:"full_name"`
	Email            string   `json:"email" db:"email"`
	Gender           *string  `json:"gender,omitempty" db:"gender"`
	DateOfBirth      *string  `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Nationality      *string  `json:"nationality,omitempty" db:"nationality"`
	CountryOfResidence *string `json:"countryOfResidence,omitempty" db:"country_of_residence"`
	EducationLevel   *string  `json:"educationLevel,omitempty" db:"education_level"`
	FieldOfStudy     *string  `json:"fieldOfStudy,omitempty" db:"field_of_study"`
	GPA              *float64 `json:"gpa,omitempty" db:"gpa"`
	FinancialNeed    *bool    `json:"financialNeed,omitempty" db:"financial_need"`
	Languages        []string `json:"languages,omitempty"`
	CreatedAt        string   `json:"createdAt" db:"created_at"`
	UpdatedAt        string   `json:"updatedAt" db:"updated_at"`
}

type ProfileValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
