// internal/workers/scholarship/query-scholarships/queries/scholarship.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func ScholarshipDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	scholarshipIDs, ok := params["scholarshipIds"].([]string)
	if !ok || len(scholarshipIDs) == 0 {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	placeholders := make([]string, len(scholarshipIDs))
	args := make([]interface{}, len(scholarshipIDs))
	for i, id := range scholarshipIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT id, name, provider, description, category, location,
	                 amount_min, amount_max, currency, deadline, is_verified,
	                 application_count, view_count, created_at, updated_at
	          FROM scholarships WHERE id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, name, provider, description, category, location, currency string
		var deadline, createdAt, updatedAt string
		var amountMin, amountMax, applicationCount, viewCount int
		var isVerified bool
		err := rows.Scan(&id, &name, &provider, &description, &category, &location,
			&amountMin, &amountMax, &currency, &deadline, &isVerified,
			&applicationCount, &viewCount, &createdAt, &updatedAt)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":               id,
			"name":             name,
			"provider":         provider,
			"description":      description,
			"category":         category,
			"location":         location,
			"amountMin":        amountMin,
			"amountMax":        amountMax,
			"currency":         currency,
			"deadline":         deadline,
			"isVerified":       isVerified,
			"applicationCount": applicationCount,
			"viewCount":        viewCount,
			"createdAt":        createdAt,
			"updatedAt":        updatedAt,
		})
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func ScholarshipCriteria(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	scholarshipID, ok := params["scholarshipId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, description, category, location string
	var genders, nationalities, countries, levels, fields []byte
	var minAge, maxAge sql.NullInt64
	var minGPA sql.NullFloat64
	var needRequired sql.NullBool

	err := db.QueryRowContext(ctx, `
		SELECT id, eligible_genders, min_age, max_age, eligible_nationalities,
		       eligible_countries, eligible_education_levels, eligible_fields,
		       min_gpa, financial_need_required, description, category, location
		FROM scholarships
		WHERE id = $1`, scholarshipID).Scan(
		&id, &genders, &minAge, &maxAge, &nationalities,
		&countries, &levels, &fields,
		&minGPA, &needRequired, &description, &category, &location,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"scholarshipId":           id,
		"eligibleGenders":         decodeStringList(genders),
		"eligibleNationalities":   decodeStringList(nationalities),
		"eligibleCountries":       decodeStringList(countries),
		"eligibleEducationLevels": decodeStringList(levels),
		"eligibleFields":          decodeStringList(fields),
		"description":             description,
		"category":                category,
		"location":                location,
	}
	if minAge.Valid {
		result["minAge"] = minAge.Int64
	}
	if maxAge.Valid {
		result["maxAge"] = maxAge.Int64
	}
	if minGPA.Valid {
		result["minGpa"] = minGPA.Float64
	}
	if needRequired.Valid {
		result["financialNeedRequired"] = needRequired.Bool
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func SavedScholarships(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.name, s.provider, s.deadline, f.saved_at
		FROM saved_scholarships f
		JOIN scholarships s ON s.id = f.scholarship_id
		WHERE f.user_id = $1
		ORDER BY f.saved_at DESC`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, name, provider, deadline, savedAt string
		if err := rows.Scan(&id, &name, &provider, &deadline, &savedAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":       id,
			"name":     name,
			"provider": provider,
			"deadline": deadline,
			"savedAt":  savedAt,
		})
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// decodeStringList reads a jsonb array column; a null or malformed column
// yields an empty list, which the match engine treats as unrestricted.
func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}
	}
	return list
}
