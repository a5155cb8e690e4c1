package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/easyapply-agent/internal/schemas"
)

func TestReportSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile("application_report.schema.json")
	require.NoError(t, err)

	var v interface{}
	assert.NoError(t, json.Unmarshal(data, &v))
}

func TestReportSchema_AcceptsWellFormedReport(t *testing.T) {
	report := `{
		"total_applied": 1,
		"total_failed": 1,
		"applied_jobs": [
			{"url": "https://www.linkedin.com/jobs/view/1", "title": "Go Engineer", "status": "Applied"}
		],
		"failed_jobs": [
			{"url": "https://www.linkedin.com/jobs/view/2", "title": "SRE", "status": "Failed", "reason": "AdditionalInfoRequired"}
		]
	}`

	assert.NoError(t, schemas.ValidateJSONBytes("application_report.schema.json", []byte(report)))
}

func TestReportSchema_RejectsMissingCounts(t *testing.T) {
	report := `{"applied_jobs": [], "failed_jobs": []}`

	err := schemas.ValidateJSONBytes("application_report.schema.json", []byte(report))
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
