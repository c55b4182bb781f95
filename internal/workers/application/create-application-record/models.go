// internal/workers/application/create-application-record/models.go
package createapplicationrecord

type Input struct {
	ApplicantID     string                 `json:"applicantId"`
	ScholarshipID   string                 `json:"scholarshipId"`
	ApplicationData map[string]interface{} `json:"applicationData"`
	MatchScore      int                    `json:"matchScore"`
	Priority        string                 `json:"priority"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	CreatedAt         string `json:"createdAt"` // ISO 8601
}
