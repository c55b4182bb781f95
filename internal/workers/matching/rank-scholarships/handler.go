// internal/workers/matching/rank-scholarships/handler.go
package rankscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-scholarships"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// Blend weights: engine compatibility dominates, search relevance second,
// deadline urgency and popularity break ties.
const (
	matchWeight      = 0.4
	searchWeight     = 0.3
	urgencyWeight    = 0.2
	popularityWeight = 0.1
)

type Handler struct {
	config *Config
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "RANKING_FAILED").Inc()
		h.failJob(client, job, "RANKING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()
	profile := toEngineProfile(input.ApplicantProfile)

	processedIDs := make(map[string]bool)
	ranked := make([]RankedScholarship, 0, len(input.Scholarships))

	for _, item := range input.Scholarships {
		if processedIDs[item.ID] {
			continue
		}
		processedIDs[item.ID] = true

		result := h.engine.Evaluate(profile, item.Criteria, start)

		searchScore := math.Min(math.Max(item.SearchScore*10.0, 0.0), 100.0)
		urgencyScore := deadlineUrgency(item.Deadline, start)
		popularity := math.Max(float64(item.ViewCount+item.ApplicationCount), 0.0)
		popularityScore := math.Min(popularity/10.0, 100.0)

		finalScore := float64(result.MatchScore)*matchWeight +
			searchScore*searchWeight +
			urgencyScore*urgencyWeight +
			popularityScore*popularityWeight
		if !result.IsEligible {
			finalScore = 0
		}

		ranked = append(ranked, RankedScholarship{
			ID:                   item.ID,
			Name:                 item.Name,
			FinalScore:           finalScore,
			MatchScore:           result.MatchScore,
			IsEligible:           result.IsEligible,
			SearchScore:          searchScore,
			UrgencyScore:         urgencyScore,
			PopularityScore:      popularityScore,
			IneligibilityReasons: result.IneligibilityReasons,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	if len(ranked) > h.config.MaxItems {
		ranked = ranked[:h.config.MaxItems]
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(input.Scholarships),
		"outputCount": len(ranked),
		"durationMs":  duration,
	})

	return &Output{RankedScholarships: ranked}, nil
}

// deadlineUrgency scores how soon the deadline is: closer deadlines rank
// higher so applicants see them before they expire. Expired deadlines score 0.
func deadlineUrgency(deadline string, now time.Time) float64 {
	if deadline == "" {
		return 50.0
	}

	t, err := time.Parse(time.RFC3339, deadline)
	if err != nil {
		t, err = time.Parse("2006-01-02", deadline)
		if err != nil {
			return 50.0
		}
	}

	daysLeft := math.Round(t.Sub(now).Hours() / 24.0)

	switch {
	case daysLeft < 0:
		return 0.0
	case daysLeft <= 14:
		return 100.0
	case daysLeft <= 30:
		return 80.0
	case daysLeft <= 90:
		return 60.0
	case daysLeft <= 180:
		return 40.0
	default:
		return 20.0
	}
}

func toEngineProfile(wire *ApplicantProfile) *matching.ApplicantProfile {
	if wire == nil {
		return nil
	}
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
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if dob, err := time.Parse(layout, *wire.DateOfBirth); err == nil {
				profile.DateOfBirth = &dob
				break
			}
		}
	}
	return profile
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
