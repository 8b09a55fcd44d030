package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/pulse-hr/pulse/internal/reports"
)

// Recorder persists delivered submissions for reporting.
type Recorder interface {
	Record(ctx context.Context, submission reports.Submission) error
}

// SubmissionDeliverJob records queued submissions.
type SubmissionDeliverJob struct {
	Recorder Recorder
	Logger   *slog.Logger
}

// Handle processes TaskTypeSubmissionDeliver tasks.
func (j *SubmissionDeliverJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Recorder == nil {
		return errors.New("submission deliver: handler not configured")
	}
	var payload SubmissionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	submission := reports.Submission{
		ID:           payload.SubmissionID,
		OrgID:        payload.OrgID,
		SurveyID:     payload.SurveyID,
		RespondentID: payload.RespondentID,
		SubmittedAt:  payload.SubmittedAt,
		Answers:      payload.Answers,
	}
	if err := j.Recorder.Record(ctx, submission); err != nil {
		if j.Logger != nil {
			j.Logger.Error("record submission", slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("submission recorded",
			slog.String("submission_id", payload.SubmissionID),
			slog.String("org_id", payload.OrgID),
			slog.Int("answers", len(payload.Answers)),
		)
	}
	return nil
}

// ReportWarmupJob recomputes report summaries so the first staff view of the
// day is served from warm state.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
}

// Handle processes TaskTypeReportWarmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	overview, err := j.Reports.Summary(ctx, payload.OrgID)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("report summary warmed",
			slog.String("org_id", payload.OrgID),
			slog.Int("submissions", overview.Submissions),
			slog.Int("categories", len(overview.Categories)),
		)
	}
	return nil
}
