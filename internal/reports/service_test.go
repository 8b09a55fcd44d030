package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/survey"
)

type fixedCatalog struct{ questions []catalog.Question }

func (f fixedCatalog) ListQuestions(ctx context.Context, orgID string) ([]catalog.Question, error) {
	return f.questions, nil
}

func testQuestions() []catalog.Question {
	return []catalog.Question{
		{ID: 1, Type: catalog.QuestionRating, Category: "Leadership", DisplayOrder: 10},
		{ID: 2, Type: catalog.QuestionRating, Category: "Leadership", DisplayOrder: 20},
		{ID: 3, Type: catalog.QuestionRating, Category: "Wellbeing", DisplayOrder: 30},
		{ID: 4, Type: catalog.QuestionFreeText, Category: "Wellbeing", DisplayOrder: 40},
	}
}

func record(t *testing.T, store *Store, id string, answers []survey.Answer) {
	t.Helper()
	err := store.Record(context.Background(), Submission{
		ID:           id,
		OrgID:        "pulse",
		SurveyID:     "s-" + id,
		RespondentID: "r-" + id,
		SubmittedAt:  time.Now().UTC(),
		Answers:      answers,
	})
	require.NoError(t, err)
}

func TestSummaryAggregatesByCategory(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	svc := NewService(store, fixedCatalog{questions: testQuestions()}, "pulse")

	record(t, store, "1", []survey.Answer{
		{QuestionID: 1, Type: catalog.QuestionRating, Rating: 6},
		{QuestionID: 2, Type: catalog.QuestionRating, Rating: 4},
		{QuestionID: 3, Type: catalog.QuestionRating, Rating: 0},
		{QuestionID: 4, Type: catalog.QuestionFreeText, Text: "more plants please"},
	})
	record(t, store, "2", []survey.Answer{
		{QuestionID: 1, Type: catalog.QuestionRating, Rating: 2},
		{QuestionID: 2, Type: catalog.QuestionRating, Rating: 0},
		{QuestionID: 3, Type: catalog.QuestionRating, Rating: 5},
	})

	overview, err := svc.Summary(context.Background(), "pulse")
	require.NoError(t, err)
	require.Equal(t, 2, overview.Submissions)
	require.Len(t, overview.Categories, 2)

	leadership := overview.Categories[0]
	require.Equal(t, "Leadership", leadership.Category)
	require.Equal(t, 3, leadership.Ratings)
	require.Equal(t, 1, leadership.NotApplicable)
	require.Equal(t, 0, leadership.Comments)
	require.InDelta(t, 4.0, leadership.Average, 1e-9)

	wellbeing := overview.Categories[1]
	require.Equal(t, "Wellbeing", wellbeing.Category)
	require.Equal(t, 1, wellbeing.Ratings)
	require.Equal(t, 1, wellbeing.NotApplicable)
	require.Equal(t, 1, wellbeing.Comments)
	require.InDelta(t, 5.0, wellbeing.Average, 1e-9)
}

func TestSummaryExcludesNotApplicableFromAverage(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	svc := NewService(store, fixedCatalog{questions: testQuestions()}, "pulse")

	record(t, store, "1", []survey.Answer{
		{QuestionID: 1, Type: catalog.QuestionRating, Rating: 0},
		{QuestionID: 2, Type: catalog.QuestionRating, Rating: 0},
	})

	overview, err := svc.Summary(context.Background(), "pulse")
	require.NoError(t, err)
	require.Len(t, overview.Categories, 1)
	require.Equal(t, 0, overview.Categories[0].Ratings)
	require.Equal(t, 2, overview.Categories[0].NotApplicable)
	require.Zero(t, overview.Categories[0].Average)
}

func TestSummarySkipsRemovedQuestions(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	svc := NewService(store, fixedCatalog{questions: testQuestions()}, "pulse")

	record(t, store, "1", []survey.Answer{
		{QuestionID: 99, Type: catalog.QuestionRating, Rating: 5},
		{QuestionID: 1, Type: catalog.QuestionRating, Rating: 3},
	})

	overview, err := svc.Summary(context.Background(), "pulse")
	require.NoError(t, err)
	require.Len(t, overview.Categories, 1)
	require.Equal(t, 1, overview.Categories[0].Ratings)
}

func TestSummaryEmptyOrg(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	svc := NewService(store, fixedCatalog{questions: testQuestions()}, "pulse")

	overview, err := svc.Summary(context.Background(), "pulse")
	require.NoError(t, err)
	require.Zero(t, overview.Submissions)
	require.Empty(t, overview.Categories)
}

func TestStoreAppendsPerOrg(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	ctx := context.Background()

	record(t, store, "1", nil)
	require.NoError(t, store.Record(ctx, Submission{ID: "x", OrgID: "other"}))

	pulse, err := store.List(ctx, "pulse")
	require.NoError(t, err)
	require.Len(t, pulse, 1)

	other, err := store.List(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
	require.Equal(t, "x", other[0].ID)
}
