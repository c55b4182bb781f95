package createapplicationrecord

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarship-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		ApplicantID:   "applicant-001",
		ScholarshipID: "sch-001",
		ApplicationData: map[string]interface{}{
			"essay":      "My motivation...",
			"transcript": "transcript-ref-9",
		},
		MatchScore: 85,
		Priority:   "high",
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("applicant-001", "sch-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(
			sqlmock.AnyArg(), // application ID (UUID)
			"applicant-001",
			"sch-001",
			sqlmock.AnyArg(), // JSON bytes
			85,
			"high",
			"submitted",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(
			"application_created",
			"application",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotEmpty(t, output.ApplicationID)
	assert.Equal(t, "submitted", output.ApplicationStatus)

	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicateApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("applicant-001", "sch-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrDuplicateApplication)
	assert.Contains(t, err.Error(), "application already exists")
	assert.Nil(t, output)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MissingIDs(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	for _, input := range []*Input{
		{ScholarshipID: "sch-001"},
		{ApplicantID: "applicant-001"},
		{},
	} {
		output, err := handler.Execute(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, output)
	}
}

func TestHandler_Execute_DuplicateCheckError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("applicant-001", "sch-001").
		WillReturnError(errors.New("database connection failed"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.Contains(t, err.Error(), "duplicate check failed")
	assert.Nil(t, output)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("applicant-001", "sch-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(errors.New("insert failed"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Nil(t, output)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditLogFailureDoesNotFailJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("applicant-001", "sch-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("audit log failed"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotEmpty(t, output.ApplicationID)
	assert.Equal(t, "submitted", output.ApplicationStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}
