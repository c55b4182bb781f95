// internal/workers/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrTemplateNotFound       = errors.New("TEMPLATE_NOT_FOUND")
)

// Interfaces over the AWS clients so tests can substitute fakes.
type SESService interface {
	SendSimpleEmail(ctx context.Context, from, to, subject, htmlBody string) (string, error)
}

type SNSService interface {
	SendSMS(ctx context.Context, phoneNumber, message string) (string, error)
}

type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	templates map[string]Template
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	templates, err := loadTemplates(config.TemplateRegistry)
	if err != nil {
		log.Warn("template registry load failed, using built-in templates", map[string]interface{}{
			"path":  config.TemplateRegistry,
			"error": err,
		})
	}

	ctx := context.Background()
	sesClient, err := aws.NewSESClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("init SES client: %w", err)
	}
	snsClient, err := aws.NewSNSClient(ctx, config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("init SNS client: %w", err)
	}

	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
		templates: templates,
	}, nil
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
		errorCode := "NOTIFICATION_SEND_FAILED"
		if errors.Is(err, ErrTemplateNotFound) {
			errorCode = "TEMPLATE_NOT_FOUND"
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
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	email, phone, err := h.getRecipientContact(ctx, input.RecipientID, input.RecipientType)
	if err != nil {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
			"type":        input.RecipientType,
		})
		out := &Output{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}
		h.recordNotification(ctx, input, out, "")
		return out, nil
	}

	template, exists := h.templates[input.NotificationType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, input.NotificationType)
	}

	data := map[string]interface{}{
		"recipientId":      input.RecipientID,
		"notificationType": input.NotificationType,
		"scholarshipId":    input.ScholarshipID,
		"applicationId":    input.ApplicationID,
		"priority":         input.Priority,
	}
	for k, v := range input.Metadata {
		data[k] = v
	}

	subject := renderTemplate(template.Subject, data)
	body := renderTemplate(template.Body, data)

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			out := &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
			h.recordNotification(ctx, input, out, "email")
			return out, nil
		}
		emailSent = true
	}

	// SMS is reserved for high-priority notifications
	if h.config.SMSEnabled && phone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			out := &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
			h.recordNotification(ctx, input, out, "sms")
			return out, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	channel := ""
	switch {
	case emailSent && smsSent:
		status = StatusSent
		channel = "email,sms"
	case emailSent:
		status = StatusSent
		channel = "email"
	case smsSent:
		status = StatusSent
		channel = "sms"
	}

	out := &Output{NotificationID: notificationID, Status: status, SentAt: sentAt}
	h.recordNotification(ctx, input, out, channel)
	return out, nil
}

func (h *Handler) getRecipientContact(ctx context.Context, recipientID, recipientType string) (string, string, error) {
	var email, phone string
	var query string

	switch recipientType {
	case RecipientTypeProvider:
		query = `SELECT email, phone FROM providers WHERE id = $1`
	case RecipientTypeApplicant:
		query = `SELECT email, phone FROM users WHERE id = $1`
	default:
		return "", "", fmt.Errorf("invalid recipient type: %s", recipientType)
	}

	err := h.db.QueryRowContext(ctx, query, recipientID).Scan(&email, &phone)
	return email, phone, err
}

// recordNotification keeps a delivery history row. Non-critical, failures
// are logged and swallowed.
func (h *Handler) recordNotification(ctx context.Context, input *Input, out *Output, channel string) {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, recipient_type, type, channel, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.NotificationID,
		input.RecipientID,
		input.RecipientType,
		input.NotificationType,
		channel,
		out.Status,
		out.SentAt,
	)
	if err != nil {
		h.logger.Warn("notification history insert failed", map[string]interface{}{
			"error":          err,
			"notificationId": out.NotificationID,
		})
	}
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendSimpleEmail(ctx, h.config.FromEmail, to, subject, body)
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.SendSMS(ctx, to, message)
	return err
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

// renderTemplate substitutes {{key}} placeholders and strips any left over.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		switch t := v.(type) {
		case string:
			value = t
		case int:
			value = fmt.Sprintf("%d", t)
		default:
			if v != nil {
				value = fmt.Sprintf("%v", v)
			}
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func defaultTemplates() map[string]Template {
	return map[string]Template{
		TypeDeadlineReminder: {
			Subject: "Scholarship Deadline Approaching",
			Body:    "Reminder: the scholarship {{scholarshipName}} closes on {{deadline}}. Complete your application {{applicationId}} before then.",
		},
		TypeEligibilityMatch: {
			Subject: "New Scholarship Match Found",
			Body:    "Good news! You match {{scholarshipName}} with a score of {{matchScore}}. View it in your dashboard.",
		},
		TypeApplicationStatus: {
			Subject: "Application Status Update",
			Body:    "Your application {{applicationId}} is now {{status}}.",
		},
	}
}

// loadTemplates reads the template registry file, falling back to the
// built-in set when the file is missing or malformed.
func loadTemplates(path string) (map[string]Template, error) {
	templates := defaultTemplates()
	if path == "" {
		return templates, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return templates, err
	}

	var loaded map[string]Template
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return templates, err
	}

	for k, v := range loaded {
		templates[k] = v
	}
	return templates, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
