package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pulse-hr/pulse/internal/survey"
)

// SubmissionSink hands accepted answer sets to the background queue. It is
// the survey engine's submission collaborator: an enqueue failure surfaces
// as a submit failure so the respondent's drafts stay intact for a retry.
type SubmissionSink struct {
	client *asynq.Client
	orgID  string
	clock  func() time.Time
}

// NewSubmissionSink constructs a sink delivering into the given org.
func NewSubmissionSink(client *asynq.Client, orgID string) *SubmissionSink {
	return &SubmissionSink{
		client: client,
		orgID:  orgID,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SubmitAnswers enqueues the answer set for delivery.
func (s *SubmissionSink) SubmitAnswers(ctx context.Context, surveyID, respondentID string, answers []survey.Answer) error {
	task, err := NewSubmissionTask(SubmissionPayload{
		SubmissionID: uuid.NewString(),
		OrgID:        s.orgID,
		SurveyID:     surveyID,
		RespondentID: respondentID,
		SubmittedAt:  s.clock(),
		Answers:      answers,
	})
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("jobs: enqueue submission: %w", err)
	}
	return nil
}
