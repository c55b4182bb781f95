package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeMatchScoreFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeDuplicateApplication, 0},
		{ErrCodeInvalidQueryType, 0},
		{ErrCodeTemplateNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("scholarship_details", stderrors.New("connection reset"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestConvertToBPMNError_NonRetryableGetsZeroRetries(t *testing.T) {
	stdErr := NewDuplicateApplicationError("app-123")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "DUPLICATE_APPLICATION", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnknownCodeFallsThrough(t *testing.T) {
	stdErr := NewBusinessRuleError("score below threshold", "matchScore: 12")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestToErrorVariables(t *testing.T) {
	bpmnErr := FromStandardError(NewIndexNotFoundError("scholarships"), 0)
	bpmnErr.ErrorVariables = map[string]interface{}{"indexName": "scholarships"}

	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "INDEX_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, "scholarships", vars["indexName"])
	assert.Equal(t, false, vars["retryable"])
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeProfileFetchFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeProfileValidationFailed))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileFetchFailed))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeRankingFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeTemplateNotFound))
}
