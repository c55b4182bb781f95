// internal/workers/application/send-notification/models.go
package sendnotification

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "applicant" or "provider"
	NotificationType string                 `json:"notificationType"`
	ScholarshipID    string                 `json:"scholarshipId,omitempty"`
	ApplicationID    string                 `json:"applicationId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeDeadlineReminder  = "deadline_reminder"
	TypeEligibilityMatch  = "eligibility_match"
	TypeApplicationStatus = "application_status"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeApplicant = "applicant"
	RecipientTypeProvider  = "provider"
)
