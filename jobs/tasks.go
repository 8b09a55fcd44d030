package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pulse-hr/pulse/internal/survey"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSubmissionDeliver carries an accepted answer set to the
	// recording backend.
	TaskTypeSubmissionDeliver = "survey:submission"
	// TaskTypeReportWarmup precomputes report summaries off the request path.
	TaskTypeReportWarmup = "reports:warmup"
)

// SubmissionPayload is the wire form of one delivered answer set.
type SubmissionPayload struct {
	SubmissionID string          `json:"submission_id"`
	OrgID        string          `json:"org_id"`
	SurveyID     string          `json:"survey_id"`
	RespondentID string          `json:"respondent_id"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Answers      []survey.Answer `json:"answers"`
}

// NewSubmissionTask constructs the delivery task.
func NewSubmissionTask(payload SubmissionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSubmissionDeliver, data), nil
}

// ReportWarmupPayload selects the organization to warm.
type ReportWarmupPayload struct {
	OrgID string `json:"org_id"`
}

// NewReportWarmupTask constructs the warmup task.
func NewReportWarmupTask(orgID string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{OrgID: orgID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportWarmup, data), nil
}
