// internal/workers/application/create-application-record/handler.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-application-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
	ErrInvalidInput         = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		switch {
		case errors.Is(err, ErrDuplicateApplication):
			errorCode = "DUPLICATE_APPLICATION"
		case errors.Is(err, ErrInvalidInput):
			errorCode = "INVALID_INPUT"
		case errors.Is(err, ErrDatabaseInsertFailed):
			errorCode = "DATABASE_INSERT_FAILED"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicantID == "" || input.ScholarshipID == "" {
		return nil, fmt.Errorf("%w: applicantId and scholarshipId are required", ErrInvalidInput)
	}

	// One application per applicant/scholarship pair
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE applicant_id = $1 AND scholarship_id = $2
		)`, input.ApplicantID, input.ScholarshipID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: application already exists for applicant %s and scholarship %s",
			ErrDuplicateApplication, input.ApplicantID, input.ScholarshipID)
	}

	appID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	applicationDataJSON, err := json.Marshal(input.ApplicationData)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal application data: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, applicant_id, scholarship_id, application_data,
			match_score, priority, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		appID,
		input.ApplicantID,
		input.ScholarshipID,
		applicationDataJSON,
		input.MatchScore,
		input.Priority,
		"submitted",
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit entry is non-critical, log and continue on failure
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicantId":   input.ApplicantID,
		"scholarshipId": input.ScholarshipID,
		"matchScore":    input.MatchScore,
		"priority":      input.Priority,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_created",
		"application",
		appID,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": appID,
		})
	}

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": appID,
		"applicantId":   input.ApplicantID,
		"scholarshipId": input.ScholarshipID,
		"matchScore":    input.MatchScore,
		"priority":      input.Priority,
	})

	return &Output{
		ApplicationID:     appID,
		ApplicationStatus: "submitted",
		CreatedAt:         createdAt,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
