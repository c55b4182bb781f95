// internal/workers/profile/validate-profile-data/handler.go
package validateprofiledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-profile-data"
)

var (
	ErrProfileValidationFailed = errors.New("PROFILE_VALIDATION_FAILED")
)

// profileSchema covers structure and types. Semantic rules (GPA range,
// date sanity, known education levels) are checked separately so each
// produces a field-level error instead of an opaque schema message.
var profileSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"gender":             map[string]interface{}{"type": "string"},
		"dateOfBirth":        map[string]interface{}{"type": "string"},
		"nationality":        map[string]interface{}{"type": "string"},
		"countryOfResidence": map[string]interface{}{"type": "string"},
		"educationLevel":     map[string]interface{}{"type": "string"},
		"fieldOfStudy":       map[string]interface{}{"type": "string"},
		"gpa":                map[string]interface{}{"type": "number"},
		"financialNeed":      map[string]interface{}{"type": "boolean"},
	},
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PROFILE_VALIDATION_FAILED").Inc()
		h.failJob(client, job, "PROFILE_VALIDATION_FAILED", err.Error())
		return
	}

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
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Validation errors do not fail the job: an incomplete profile is a
// normal state and downstream matching falls back to neutral scoring.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ProfileData == nil {
		return &Output{
			IsValid:          false,
			ValidatedProfile: map[string]interface{}{},
			ValidationErrors: []ValidationError{{
				Field:   "profileData",
				Code:    "MISSING_REQUIRED",
				Message: "profileData is required",
			}},
		}, nil
	}

	validationErrors, err := h.validateSchema(input.ProfileData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileValidationFailed, err)
	}

	validated := make(map[string]interface{})
	for _, field := range []string{"gender", "nationality", "countryOfResidence", "educationLevel", "fieldOfStudy"} {
		if raw, ok := input.ProfileData[field]; ok {
			if s, ok := raw.(string); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" {
					validated[field] = trimmed
				}
			}
		}
	}

	if raw, ok := input.ProfileData["gpa"]; ok {
		if gpa, ok := raw.(float64); ok {
			if gpa < 0 || gpa > 4.0 {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "gpa",
					Code:    "OUT_OF_RANGE",
					Message: "GPA must be between 0.0 and 4.0",
				})
			} else {
				validated["gpa"] = gpa
			}
		}
	}

	if raw, ok := input.ProfileData["dateOfBirth"]; ok {
		if s, ok := raw.(string); ok && s != "" {
			dob, err := time.Parse("2006-01-02", s)
			if err != nil {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "dateOfBirth",
					Code:    "INVALID_FORMAT",
					Message: "Date of birth must be in YYYY-MM-DD format",
				})
			} else if dob.After(time.Now()) {
				validationErrors = append(validationErrors, ValidationError{
					Field:   "dateOfBirth",
					Code:    "INVALID_VALUE",
					Message: "Date of birth cannot be in the future",
				})
			} else {
				validated["dateOfBirth"] = s
			}
		}
	}

	if level, ok := validated["educationLevel"].(string); ok {
		if !isKnownEducationLevel(level) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "educationLevel",
				Code:    "UNKNOWN_VALUE",
				Message: fmt.Sprintf("Education level must be one of: %s", strings.Join(knownEducationLevels, ", ")),
			})
			delete(validated, "educationLevel")
		}
	}

	if raw, ok := input.ProfileData["financialNeed"]; ok {
		if b, ok := raw.(bool); ok {
			validated["financialNeed"] = b
		}
	}

	isValid := len(validationErrors) == 0
	h.logger.Info("validation completed", map[string]interface{}{
		"userId":     input.UserID,
		"isValid":    isValid,
		"errorCount": len(validationErrors),
	})

	if validationErrors == nil {
		validationErrors = []ValidationError{}
	}

	return &Output{
		IsValid:          isValid,
		ValidatedProfile: validated,
		ValidationErrors: validationErrors,
	}, nil
}

func (h *Handler) validateSchema(data map[string]interface{}) ([]ValidationError, error) {
	schemaLoader := gojsonschema.NewGoLoader(profileSchema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, err
	}

	var validationErrors []ValidationError
	for _, desc := range result.Errors() {
		validationErrors = append(validationErrors, ValidationError{
			Field:   desc.Field(),
			Code:    "INVALID_TYPE",
			Message: desc.Description(),
		})
	}
	return validationErrors, nil
}

func isKnownEducationLevel(level string) bool {
	for _, known := range knownEducationLevels {
		if strings.EqualFold(level, known) {
			return true
		}
	}
	return false
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
