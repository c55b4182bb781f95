// internal/models/application.go
package models

type Application struct {
	ID              string                 `json:"id"`
	ApplicantID     string                 `json:"applicantId"`
	ScholarshipID   string                 `json:"scholarshipId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
	MatchScore      int                    `json:"matchScore"`
	Priority        string                 `json:"priority"`
	Status          string                 `json:"status"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

type ApplicationAuditEntry struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId"`
	Action        string `json:"action"`
	Actor         string `json:"actor"`
	Detail        string `json:"detail,omitempty"`
	CreatedAt     string `json:"createdAt"`
}
