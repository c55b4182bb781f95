// internal/workers/scholarship/query-scholarships/handler_test.go
package queryscholarships

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"scholarship-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InvalidQueryType(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "drop_tables",
	})

	assert.ErrorIs(t, err, ErrInvalidQueryType)
	assert.Nil(t, output)
}

func TestHandler_Execute_ScholarshipCriteria(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, eligible_genders").
		WithArgs("scholarship-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "eligible_genders", "min_age", "max_age", "eligible_nationalities",
			"eligible_countries", "eligible_education_levels", "eligible_fields",
			"min_gpa", "financial_need_required", "description", "category", "location",
		}).AddRow(
			"scholarship-1", []byte(`["female"]`), 18, 25, []byte(`["Kenya"]`),
			nil, []byte(`["Bachelor"]`), nil,
			3.5, true, "STEM award for undergraduates", "STEM", "Kenya",
		))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:     string(QueryTypeScholarshipCriteria),
		ScholarshipID: "scholarship-1",
	})

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 1, output.RowCount)

	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "scholarship-1", data["scholarshipId"])
	assert.Equal(t, []string{"female"}, data["eligibleGenders"])
	assert.Equal(t, []string{"Kenya"}, data["eligibleNationalities"])
	assert.Equal(t, []string{}, data["eligibleCountries"])
	assert.Equal(t, 3.5, data["minGpa"])
	assert.Equal(t, true, data["financialNeedRequired"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ScholarshipDetails(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, provider").
		WithArgs("s-1", "s-2").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "provider", "description", "category", "location",
			"amount_min", "amount_max", "currency", "deadline", "is_verified",
			"application_count", "view_count", "created_at", "updated_at",
		}).
			AddRow("s-1", "Award A", "Provider A", "desc", "STEM", "Kenya",
				1000, 5000, "USD", "2026-12-01", true, 10, 100, "2026-01-01", "2026-02-01").
			AddRow("s-2", "Award B", "Provider B", "desc", "Arts", "Ghana",
				500, 2000, "USD", "2026-11-01", false, 5, 40, "2026-01-01", "2026-02-01"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:      string(QueryTypeScholarshipDetails),
		ScholarshipIDs: []string{"s-1", "s-2"},
	})

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 2, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ApplicantProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT full_name, email").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"full_name", "email", "gender", "date_of_birth", "nationality",
			"country_of_residence", "education_level", "field_of_study",
			"gpa", "financial_need",
		}).AddRow("Amina Odhiambo", "amina@example.com", "female", "2004-01-10",
			"Kenya", nil, "Bachelor's Degree", nil, 3.8, nil))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeApplicantProfile),
		UserID:    "user-1",
	})

	assert.NoError(t, err)
	require.NotNil(t, output)

	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Amina Odhiambo", data["fullName"])
	assert.Equal(t, "Kenya", data["nationality"])
	assert.Equal(t, 3.8, data["gpa"])
	// Absent columns stay absent rather than defaulting
	_, hasCountry := data["countryOfResidence"]
	assert.False(t, hasCountry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SavedScholarships(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT s.id, s.name").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "provider", "deadline", "saved_at"}).
			AddRow("s-1", "Award A", "Provider A", "2026-12-01", "2026-05-01T10:00:00Z"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeSavedScholarships),
		UserID:    "user-2",
	})

	assert.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 1, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MissingParam(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	// scholarship_criteria needs a scholarshipId
	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeScholarshipCriteria),
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.Nil(t, output)
}

func TestHandler_Execute_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT full_name, email").
		WithArgs("user-x").
		WillReturnError(sql.ErrConnDone)

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(QueryTypeApplicantProfile),
		UserID:    "user-x",
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}
