// internal/workers/profile/validate-profile-data/models.go
package validateprofiledata

type Input struct {
	UserID      string                 `json:"userId"`
	ProfileData map[string]interface{} `json:"profileData"`
}

type Output struct {
	IsValid          bool                   `json:"isValid"`
	ValidatedProfile map[string]interface{} `json:"validatedProfile"`
	ValidationErrors []ValidationError      `json:"validationErrors"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Education levels the matching engine understands.
var knownEducationLevels = []string{
	"high school",
	"bachelor",
	"master",
	"phd",
}
