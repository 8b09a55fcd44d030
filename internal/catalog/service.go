package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pulse-hr/pulse/internal/shared"
)

// ErrUnknownType indicates an unsupported question type on create/update.
var ErrUnknownType = errors.New("catalog: unknown question type")

// Service is the survey definition provider: it owns the question catalog
// and resolves per-customer annotations at read time.
type Service struct {
	store *Store
}

// NewService constructs a Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ListQuestions returns the catalog ordered by display order.
func (s *Service) ListQuestions(ctx context.Context, orgID string) ([]Question, error) {
	questions, err := s.store.LoadQuestions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	sortQuestions(questions)
	return questions, nil
}

// QuestionsForCustomer returns the ordered catalog with the customer's
// annotation overlay applied.
func (s *Service) QuestionsForCustomer(ctx context.Context, orgID, customerID string) ([]Question, error) {
	questions, err := s.ListQuestions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	overlay, err := s.store.LoadAnnotations(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if note, ok := overlay[questions[i].ID]; ok {
			questions[i].Annotation = note
		}
	}
	return questions, nil
}

// QuestionInput carries staff-entered question fields.
type QuestionInput struct {
	Text         string
	Type         QuestionType
	Category     string
	DisplayOrder int
}

// CreateQuestion appends a question to the catalog.
func (s *Service) CreateQuestion(ctx context.Context, orgID string, input QuestionInput) (Question, error) {
	if err := validateInput(&input); err != nil {
		return Question{}, err
	}
	questions, err := s.store.LoadQuestions(ctx, orgID)
	if err != nil {
		return Question{}, err
	}
	id, err := s.store.NextQuestionID(ctx, orgID)
	if err != nil {
		return Question{}, err
	}
	question := Question{
		ID:           id,
		Text:         input.Text,
		Type:         input.Type,
		Category:     input.Category,
		DisplayOrder: input.DisplayOrder,
	}
	questions = append(questions, question)
	if err := s.store.SaveQuestions(ctx, orgID, questions); err != nil {
		return Question{}, err
	}
	return question, nil
}

// UpdateQuestion replaces an existing question's fields.
func (s *Service) UpdateQuestion(ctx context.Context, orgID string, id int64, input QuestionInput) (Question, error) {
	if err := validateInput(&input); err != nil {
		return Question{}, err
	}
	questions, err := s.store.LoadQuestions(ctx, orgID)
	if err != nil {
		return Question{}, err
	}
	for i := range questions {
		if questions[i].ID != id {
			continue
		}
		questions[i].Text = input.Text
		questions[i].Type = input.Type
		questions[i].Category = input.Category
		questions[i].DisplayOrder = input.DisplayOrder
		if err := s.store.SaveQuestions(ctx, orgID, questions); err != nil {
			return Question{}, err
		}
		return questions[i], nil
	}
	return Question{}, shared.ErrNotFound
}

// DeleteQuestion removes a question from the catalog.
func (s *Service) DeleteQuestion(ctx context.Context, orgID string, id int64) error {
	questions, err := s.store.LoadQuestions(ctx, orgID)
	if err != nil {
		return err
	}
	kept := questions[:0]
	found := false
	for _, q := range questions {
		if q.ID == id {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return shared.ErrNotFound
	}
	return s.store.SaveQuestions(ctx, orgID, kept)
}

// SetAnnotation attaches or clears a customer-specific note on a question.
// An empty text removes the note.
func (s *Service) SetAnnotation(ctx context.Context, orgID string, questionID int64, customerID, text string) error {
	questions, err := s.store.LoadQuestions(ctx, orgID)
	if err != nil {
		return err
	}
	found := false
	for _, q := range questions {
		if q.ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return shared.ErrNotFound
	}
	overlay, err := s.store.LoadAnnotations(ctx, orgID, customerID)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		delete(overlay, questionID)
	} else {
		overlay[questionID] = text
	}
	return s.store.SaveAnnotations(ctx, orgID, customerID, overlay)
}

func validateInput(input *QuestionInput) error {
	input.Text = strings.TrimSpace(input.Text)
	input.Category = strings.TrimSpace(input.Category)
	if input.Text == "" {
		return errors.New("catalog: question text required")
	}
	if input.Type != QuestionRating && input.Type != QuestionFreeText {
		return ErrUnknownType
	}
	return nil
}

func sortQuestions(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].DisplayOrder != questions[j].DisplayOrder {
			return questions[i].DisplayOrder < questions[j].DisplayOrder
		}
		return questions[i].ID < questions[j].ID
	})
}
