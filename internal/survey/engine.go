package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulse-hr/pulse/internal/catalog"
)

// Status is the lifecycle state of one survey attempt.
type Status string

const (
	StatusLoading     Status = "LOADING"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusSubmitting  Status = "SUBMITTING"
	StatusSubmitted   Status = "SUBMITTED"
	StatusLoadError   Status = "LOAD_ERROR"
	StatusSubmitError Status = "SUBMIT_ERROR"
)

const (
	// PageSize is the fixed number of questions per survey page.
	PageSize = 10
	// RatingUnanswered marks a rating draft nobody touched yet. It is never
	// a valid submitted value.
	RatingUnanswered = -1
	// RatingMin is "not applicable", which counts as answered.
	RatingMin = 0
	// RatingMax is the top of the rating scale.
	RatingMax = 6
)

var (
	// ErrBusy rejects user actions while a load or submission is in flight.
	ErrBusy = errors.New("survey: operation in flight")
	// ErrSubmitted rejects any action on a finished attempt.
	ErrSubmitted = errors.New("survey: attempt already submitted")
	// ErrUnknownQuestion reports an answer for a question id that is not in
	// the loaded catalog. This is a programmer error, not user input.
	ErrUnknownQuestion = errors.New("survey: question not in loaded catalog")
	// ErrWrongAnswerKind reports a rating answer to a free-text question or
	// vice versa.
	ErrWrongAnswerKind = errors.New("survey: answer kind does not match question type")
	// ErrPageIncomplete gates Next and Submit on unanswered questions.
	ErrPageIncomplete = errors.New("survey: page has unanswered questions")
	// ErrInvalidTransition covers Next past the end, Previous before the
	// start, and Submit away from the last page.
	ErrInvalidTransition = errors.New("survey: transition not allowed")
)

// Draft is the in-progress answer to one question. Rating drafts start at
// RatingUnanswered, free-text drafts at the empty string.
type Draft struct {
	QuestionID int64                `json:"question_id"`
	Type       catalog.QuestionType `json:"type"`
	Rating     int                  `json:"rating"`
	Text       string               `json:"text"`
}

// Answered reports whether the draft holds a submittable value. Rating 0
// (not applicable) counts as answered; whitespace-only text does not.
func (d Draft) Answered() bool {
	if d.Type == catalog.QuestionRating {
		return d.Rating >= RatingMin
	}
	return strings.TrimSpace(d.Text) != ""
}

// Answer is one submitted value handed to the submission sink.
type Answer struct {
	QuestionID int64                `json:"question_id"`
	Type       catalog.QuestionType `json:"type"`
	Rating     int                  `json:"rating,omitempty"`
	Text       string               `json:"text,omitempty"`
}

// Attempt is one respondent's journey through a survey. It is owned by the
// browsing session that created it and never shared across sessions.
type Attempt struct {
	SurveyID     string  `json:"survey_id"`
	RespondentID string  `json:"respondent_id"`
	CustomerID   string  `json:"customer_id"`
	Status       Status  `json:"status"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	Drafts       []Draft `json:"drafts"`
	Generation   uint64  `json:"generation"`
	LastError    string  `json:"last_error,omitempty"`
}

// NewAttempt opens an attempt in the Loading state.
func NewAttempt(surveyID, respondentID, customerID string) *Attempt {
	return &Attempt{
		SurveyID:     surveyID,
		RespondentID: respondentID,
		CustomerID:   customerID,
		Status:       StatusLoading,
	}
}

// BeginLoad suspends the attempt for a catalog fetch and returns the token
// the matching FinishLoad must present. Loading is re-entrant: a second
// BeginLoad invalidates the first fetch's token.
func (a *Attempt) BeginLoad() (uint64, error) {
	if a.Status == StatusSubmitted {
		return 0, ErrSubmitted
	}
	if a.Status == StatusSubmitting {
		return 0, ErrBusy
	}
	a.Generation++
	a.Status = StatusLoading
	return a.Generation, nil
}

// FinishLoad applies a completed catalog fetch. A stale token (the attempt
// moved on, or was reloaded) is dropped and FinishLoad reports false.
// Drafts are always rebuilt from scratch: loading twice never duplicates or
// merges drafts.
func (a *Attempt) FinishLoad(token uint64, questions []catalog.Question, err error) bool {
	if a.Status != StatusLoading || token != a.Generation {
		return false
	}
	if err != nil {
		a.Status = StatusLoadError
		a.LastError = err.Error()
		a.Drafts = nil
		a.Page = 0
		a.TotalPages = 0
		return true
	}
	drafts := make([]Draft, len(questions))
	for i, q := range questions {
		drafts[i] = Draft{QuestionID: q.ID, Type: q.Type}
		if q.Type == catalog.QuestionRating {
			drafts[i].Rating = RatingUnanswered
		}
	}
	a.Drafts = drafts
	a.Page = 1
	a.TotalPages = pageCount(len(questions))
	a.Status = StatusInProgress
	a.LastError = ""
	return true
}

// SetRating records a rating answer on the current catalog. Values are
// clamped into the 0..6 domain; the unanswered marker cannot be set back.
func (a *Attempt) SetRating(questionID int64, value int) error {
	draft, err := a.draftFor(questionID)
	if err != nil {
		return err
	}
	if draft.Type != catalog.QuestionRating {
		return ErrWrongAnswerKind
	}
	if value < RatingMin {
		value = RatingMin
	}
	if value > RatingMax {
		value = RatingMax
	}
	draft.Rating = value
	return nil
}

// SetText records a free-text answer. The raw string is kept; emptiness is
// judged at validation time.
func (a *Attempt) SetText(questionID int64, text string) error {
	draft, err := a.draftFor(questionID)
	if err != nil {
		return err
	}
	if draft.Type != catalog.QuestionFreeText {
		return ErrWrongAnswerKind
	}
	draft.Text = text
	return nil
}

// PageValid reports whether every question on the page has an answered
// draft. Pure over the draft set: same drafts, same verdict.
func (a *Attempt) PageValid(page int) bool {
	start, end := a.pageBounds(page)
	if start < 0 {
		return false
	}
	for _, d := range a.Drafts[start:end] {
		if !d.Answered() {
			return false
		}
	}
	return true
}

// AllAnswered reports whether every draft in the attempt is answered.
func (a *Attempt) AllAnswered() bool {
	for _, d := range a.Drafts {
		if !d.Answered() {
			return false
		}
	}
	return true
}

// Next advances to the following page, gated on the current page being
// fully answered.
func (a *Attempt) Next() error {
	if err := a.requireInProgress(); err != nil {
		return err
	}
	if a.Page >= a.TotalPages {
		return ErrInvalidTransition
	}
	if !a.PageValid(a.Page) {
		return ErrPageIncomplete
	}
	a.Page++
	return nil
}

// Stay keeps the attempt on its current page. It is the transition behind a
// plain answer save, where the drafts change but the position does not.
func (a *Attempt) Stay() error {
	return a.requireInProgress()
}

// Previous retreats one page. Going back never requires validity.
func (a *Attempt) Previous() error {
	if err := a.requireInProgress(); err != nil {
		return err
	}
	if a.Page <= 1 {
		return ErrInvalidTransition
	}
	a.Page--
	return nil
}

// BeginSubmit suspends the attempt for submission. It re-verifies the whole
// draft set, not just the last page, because Previous allows retreating and
// editing without re-gating pages already passed.
func (a *Attempt) BeginSubmit() (uint64, error) {
	if err := a.requireInProgress(); err != nil {
		return 0, err
	}
	if a.Page != a.TotalPages {
		return 0, ErrInvalidTransition
	}
	if !a.AllAnswered() {
		return 0, ErrPageIncomplete
	}
	a.Generation++
	a.Status = StatusSubmitting
	return a.Generation, nil
}

// FinishSubmit applies the submission outcome. Stale tokens are dropped.
// Success is terminal: the drafts are discarded and no edit path remains.
// Failure preserves every draft for a retry.
func (a *Attempt) FinishSubmit(token uint64, err error) bool {
	if a.Status != StatusSubmitting || token != a.Generation {
		return false
	}
	if err != nil {
		a.Status = StatusSubmitError
		a.LastError = err.Error()
		return true
	}
	a.Status = StatusSubmitted
	a.Drafts = nil
	a.LastError = ""
	return true
}

// Resume returns a failed attempt to InProgress on its last visited page so
// the respondent can retry without re-entering answers.
func (a *Attempt) Resume() {
	if a.Status == StatusSubmitError {
		a.Status = StatusInProgress
	}
}

// Answers collects the submittable values, filtering anything unanswered.
// Given BeginSubmit's gate the filter should drop nothing; it is a defensive
// guarantee that no -1 or blank value ever reaches the sink.
func (a *Attempt) Answers() []Answer {
	answers := make([]Answer, 0, len(a.Drafts))
	for _, d := range a.Drafts {
		if !d.Answered() {
			continue
		}
		answer := Answer{QuestionID: d.QuestionID, Type: d.Type}
		if d.Type == catalog.QuestionRating {
			answer.Rating = d.Rating
		} else {
			answer.Text = strings.TrimSpace(d.Text)
		}
		answers = append(answers, answer)
	}
	return answers
}

// Aligned reports whether the drafts still mirror the given question list.
// A changed catalog invalidates the attempt, which must then be reloaded.
func (a *Attempt) Aligned(questions []catalog.Question) bool {
	if len(a.Drafts) != len(questions) {
		return false
	}
	for i, q := range questions {
		if a.Drafts[i].QuestionID != q.ID || a.Drafts[i].Type != q.Type {
			return false
		}
	}
	return true
}

// PageBounds exposes the half-open draft index range of a page for renderers.
func (a *Attempt) PageBounds(page int) (int, int) {
	return a.pageBounds(page)
}

func (a *Attempt) requireInProgress() error {
	switch a.Status {
	case StatusInProgress:
		return nil
	case StatusSubmitted:
		return ErrSubmitted
	case StatusLoading, StatusSubmitting:
		return ErrBusy
	default:
		return ErrInvalidTransition
	}
}

func (a *Attempt) draftFor(questionID int64) (*Draft, error) {
	if err := a.requireInProgress(); err != nil {
		return nil, err
	}
	for i := range a.Drafts {
		if a.Drafts[i].QuestionID == questionID {
			return &a.Drafts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownQuestion, questionID)
}

func (a *Attempt) pageBounds(page int) (int, int) {
	if page < 1 || page > a.TotalPages {
		return -1, -1
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(a.Drafts) {
		end = len(a.Drafts)
	}
	return start, end
}

func pageCount(questions int) int {
	if questions == 0 {
		return 1
	}
	return (questions + PageSize - 1) / PageSize
}

// QuestionSource provides the ordered, customer-annotated question list.
type QuestionSource interface {
	QuestionsForCustomer(ctx context.Context, orgID, customerID string) ([]catalog.Question, error)
}

// Submitter is the external submission sink.
type Submitter interface {
	SubmitAnswers(ctx context.Context, surveyID, respondentID string, answers []Answer) error
}

// Engine drives attempts against the question source and submission sink.
// All transitions are synchronous; the begin/finish split on Attempt exists
// so a completion returning for an abandoned attempt is dropped instead of
// clobbering newer state.
type Engine struct {
	questions QuestionSource
	sink      Submitter
}

// NewEngine constructs an Engine.
func NewEngine(questions QuestionSource, sink Submitter) *Engine {
	return &Engine{questions: questions, sink: sink}
}

// Load fetches the catalog for the attempt's customer and initializes the
// draft set. Retryable after LoadError.
func (e *Engine) Load(ctx context.Context, a *Attempt, orgID string) error {
	token, err := a.BeginLoad()
	if err != nil {
		return err
	}
	questions, err := e.questions.QuestionsForCustomer(ctx, orgID, a.CustomerID)
	a.FinishLoad(token, questions, err)
	if err != nil {
		return fmt.Errorf("survey: load catalog: %w", err)
	}
	return nil
}

// Submit sends the answers to the sink. On failure the attempt returns to
// InProgress on its last page with every draft intact, so a retry needs no
// re-entry.
func (e *Engine) Submit(ctx context.Context, a *Attempt) error {
	token, err := a.BeginSubmit()
	if err != nil {
		return err
	}
	submitErr := e.sink.SubmitAnswers(ctx, a.SurveyID, a.RespondentID, a.Answers())
	a.FinishSubmit(token, submitErr)
	if submitErr != nil {
		a.Resume()
		return fmt.Errorf("survey: submit: %w", submitErr)
	}
	return nil
}
