// internal/workers/matching/evaluate-match/handler.go
package evaluatematch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "evaluate-match"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	engine := matching.NewEngine()
	if config.KeywordTablePath != "" {
		table, err := matching.LoadKeywordTableFromFile(config.KeywordTablePath)
		if err != nil {
			log.Warn("keyword table load failed, using defaults", map[string]interface{}{
				"path":  config.KeywordTablePath,
				"error": err,
			})
		}
		engine = matching.NewEngineWithKeywords(table)
	}

	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
		engine: engine,
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "MATCH_SCORE_FAILED").Inc()
		h.failJob(client, job, "MATCH_SCORE_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var profile *matching.ApplicantProfile
	if input.ApplicantProfile != nil {
		profile = toEngineProfile(input.ApplicantProfile)
	} else if input.UserID != "" {
		var err error
		profile, err = h.getApplicantProfile(ctx, input.UserID)
		if err != nil {
			// Incomplete user data is not an error; the engine handles a
			// missing profile with its neutral default.
			h.logger.Warn("failed to fetch applicant profile", map[string]interface{}{
				"userId": input.UserID,
				"error":  err,
			})
		}
	}

	result := h.engine.Evaluate(profile, input.ScholarshipData.Criteria, time.Now())
	metrics.MatchScoreDistribution.Observe(float64(result.MatchScore))

	h.logger.Info("match evaluated", map[string]interface{}{
		"userId":        input.UserID,
		"scholarshipId": input.ScholarshipData.ID,
		"score":         result.MatchScore,
		"eligible":      result.IsEligible,
	})

	return &Output{
		ScholarshipID:        input.ScholarshipData.ID,
		MatchScore:           result.MatchScore,
		IsEligible:           result.IsEligible,
		MatchDetails:         result.MatchDetails,
		IneligibilityReasons: result.IneligibilityReasons,
	}, nil
}

func (h *Handler) getApplicantProfile(ctx context.Context, userID string) (*matching.ApplicantProfile, error) {
	cacheKey := "applicant:profile:" + userID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var wire ApplicantProfile
		if err := json.Unmarshal([]byte(val), &wire); err == nil {
			metrics.ProfileCacheHits.WithLabelValues("hit").Inc()
			return toEngineProfile(&wire), nil
		}
	}
	metrics.ProfileCacheHits.WithLabelValues("miss").Inc()

	row := h.db.QueryRowContext(ctx, `
		SELECT gender, date_of_birth, nationality, country_of_residence,
		       education_level, field_of_study, gpa, financial_need
		FROM student_profiles WHERE user_id = $1`, userID)

	var gender, dob, nationality, country, education, field sql.NullString
	var gpa sql.NullFloat64
	var need sql.NullBool
	err := row.Scan(&gender, &dob, &nationality, &country, &education, &field, &gpa, &need)
	if err != nil {
		return nil, err
	}

	wire := ApplicantProfile{
		Gender:             nullableString(gender),
		DateOfBirth:        nullableString(dob),
		Nationality:        nullableString(nationality),
		CountryOfResidence: nullableString(country),
		EducationLevel:     nullableString(education),
		FieldOfStudy:       nullableString(field),
	}
	if gpa.Valid {
		wire.GPA = &gpa.Float64
	}
	if need.Valid {
		wire.FinancialNeed = &need.Bool
	}

	data, _ := json.Marshal(wire)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return toEngineProfile(&wire), nil
}

func toEngineProfile(wire *ApplicantProfile) *matching.ApplicantProfile {
	profile := &matching.ApplicantProfile{
		Gender:             wire.Gender,
		Nationality:        wire.Nationality,
		CountryOfResidence: wire.CountryOfResidence,
		EducationLevel:     wire.EducationLevel,
		FieldOfStudy:       wire.FieldOfStudy,
		GPA:                wire.GPA,
		FinancialNeed:      wire.FinancialNeed,
	}
	if wire.DateOfBirth != nil {
		if dob, err := parseDate(*wire.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
	return profile
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
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
