// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeScholarshipDetails  QueryType = "scholarship_details"
	QueryTypeScholarshipCriteria QueryType = "scholarship_criteria"
	QueryTypeApplicantProfile    QueryType = "applicant_profile"
	QueryTypeSavedScholarships   QueryType = "saved_scholarships"
)
