package reports

import (
	"time"

	"github.com/pulse-hr/pulse/internal/survey"
)

// Submission is one delivered answer set, recorded for aggregation.
type Submission struct {
	ID           string          `json:"id"`
	OrgID        string          `json:"org_id"`
	SurveyID     string          `json:"survey_id"`
	RespondentID string          `json:"respondent_id"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Answers      []survey.Answer `json:"answers"`
}

// CategorySummary aggregates ratings per question category. Rating 0 means
// not applicable and is excluded from the average.
type CategorySummary struct {
	Category      string  `json:"category"`
	Ratings       int     `json:"ratings"`
	NotApplicable int     `json:"not_applicable"`
	Comments      int     `json:"comments"`
	Average       float64 `json:"average"`
}
