// internal/workers/scholarship/query-scholarships/queries/profile.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func ApplicantProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var fullName, email string
	var gender, dateOfBirth, nationality, country, level, field sql.NullString
	var gpa sql.NullFloat64
	var need sql.NullBool

	err := db.QueryRowContext(ctx, `
		SELECT full_name, email, gender, date_of_birth, nationality,
		       country_of_residence, education_level, field_of_study,
		       gpa, financial_need
		FROM student_profiles
		WHERE user_id = $1`, userID).Scan(
		&fullName, &email, &gender, &dateOfBirth, &nationality,
		&country, &level, &field, &gpa, &need,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"userId":   userID,
		"fullName": fullName,
		"email":    email,
	}
	setIfValid := func(key string, v sql.NullString) {
		if v.Valid {
			result[key] = v.String
		}
	}
	setIfValid("gender", gender)
	setIfValid("dateOfBirth", dateOfBirth)
	setIfValid("nationality", nationality)
	setIfValid("countryOfResidence", country)
	setIfValid("educationLevel", level)
	setIfValid("fieldOfStudy", field)
	if gpa.Valid {
		result["gpa"] = gpa.Float64
	}
	if need.Valid {
		result["financialNeed"] = need.Bool
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
