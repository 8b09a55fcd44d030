package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/shared"
)

const testOrg = "pulse"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(kv.NewMemoryStore()))
}

func TestCreateAndListQuestions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	second, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{
		Text: "How clear are goals?", Type: QuestionRating, Category: "Leadership", DisplayOrder: 20,
	})
	require.NoError(t, err)
	first, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{
		Text: "Anything else?", Type: QuestionFreeText, Category: "General", DisplayOrder: 10,
	})
	require.NoError(t, err)

	require.Equal(t, int64(1), second.ID)
	require.Equal(t, int64(2), first.ID)

	questions, err := svc.ListQuestions(ctx, testOrg)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	// Display order wins over creation order.
	require.Equal(t, first.ID, questions[0].ID)
	require.Equal(t, second.ID, questions[1].ID)
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "   ", Type: QuestionRating})
	require.Error(t, err)

	_, err = svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "ok", Type: QuestionType("checkbox")})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: text, Type: QuestionRating, DisplayOrder: 10})
		require.NoError(t, err)
	}
	// Deleting the highest ID is the interesting case: a max-based
	// allocator would hand that ID out again.
	require.NoError(t, svc.DeleteQuestion(ctx, testOrg, 3))

	q, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "d", Type: QuestionRating, DisplayOrder: 10})
	require.NoError(t, err)
	require.Equal(t, int64(4), q.ID)
}

func TestAnnotationDoesNotAttachToReplacementQuestion(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: text, Type: QuestionRating, DisplayOrder: 10})
		require.NoError(t, err)
	}
	require.NoError(t, svc.SetAnnotation(ctx, testOrg, 3, "acme", "note for c"))
	require.NoError(t, svc.DeleteQuestion(ctx, testOrg, 3))

	replacement, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "d", Type: QuestionRating, DisplayOrder: 10})
	require.NoError(t, err)
	require.NotEqual(t, int64(3), replacement.ID)

	questions, err := svc.QuestionsForCustomer(ctx, testOrg, "acme")
	require.NoError(t, err)
	for _, q := range questions {
		require.Empty(t, q.Annotation)
	}
}

func TestNextQuestionIDResumesAboveSeededCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore())
	require.NoError(t, Seed(ctx, store, testOrg))

	q, err := NewService(store).CreateQuestion(ctx, testOrg, QuestionInput{
		Text: "Do you feel heard in team meetings?", Type: QuestionRating, DisplayOrder: 150,
	})
	require.NoError(t, err)
	require.Equal(t, int64(15), q.ID)
}

func TestUpdateQuestion(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "old", Type: QuestionRating, DisplayOrder: 10})
	require.NoError(t, err)

	updated, err := svc.UpdateQuestion(ctx, testOrg, created.ID, QuestionInput{
		Text: "new text", Type: QuestionFreeText, Category: "General", DisplayOrder: 30,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "new text", updated.Text)
	require.Equal(t, QuestionFreeText, updated.Type)

	_, err = svc.UpdateQuestion(ctx, testOrg, 99, QuestionInput{Text: "x", Type: QuestionRating})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteQuestionNotFound(t *testing.T) {
	svc := newTestService(t)
	require.ErrorIs(t, svc.DeleteQuestion(context.Background(), testOrg, 7), shared.ErrNotFound)
}

func TestAnnotationsAreCustomerScoped(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	q, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "q", Type: QuestionRating, DisplayOrder: 10})
	require.NoError(t, err)

	require.NoError(t, svc.SetAnnotation(ctx, testOrg, q.ID, "acme", "Acme uses OKRs here"))

	acme, err := svc.QuestionsForCustomer(ctx, testOrg, "acme")
	require.NoError(t, err)
	require.Equal(t, "Acme uses OKRs here", acme[0].Annotation)
	require.True(t, acme[0].Annotated())

	other, err := svc.QuestionsForCustomer(ctx, testOrg, "globex")
	require.NoError(t, err)
	require.Empty(t, other[0].Annotation)

	// Base catalog stays clean.
	base, err := svc.ListQuestions(ctx, testOrg)
	require.NoError(t, err)
	require.Empty(t, base[0].Annotation)
}

func TestSetAnnotationEmptyTextClears(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	q, err := svc.CreateQuestion(ctx, testOrg, QuestionInput{Text: "q", Type: QuestionRating, DisplayOrder: 10})
	require.NoError(t, err)
	require.NoError(t, svc.SetAnnotation(ctx, testOrg, q.ID, "acme", "note"))
	require.NoError(t, svc.SetAnnotation(ctx, testOrg, q.ID, "acme", "   "))

	questions, err := svc.QuestionsForCustomer(ctx, testOrg, "acme")
	require.NoError(t, err)
	require.Empty(t, questions[0].Annotation)
}

func TestSetAnnotationUnknownQuestion(t *testing.T) {
	svc := newTestService(t)
	err := svc.SetAnnotation(context.Background(), testOrg, 42, "acme", "note")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAnnotationNumbersSkipUnannotated(t *testing.T) {
	questions := []Question{
		{ID: 1, DisplayOrder: 10},
		{ID: 2, DisplayOrder: 20, Annotation: "first note"},
		{ID: 3, DisplayOrder: 30},
		{ID: 4, DisplayOrder: 40, Annotation: "second note"},
		{ID: 5, DisplayOrder: 50, Annotation: "third note"},
	}
	numbers := AnnotationNumbers(questions)
	require.Equal(t, map[int64]int{2: 1, 4: 2, 5: 3}, numbers)
}

func TestAnnotationNumbersFollowDisplayOrder(t *testing.T) {
	// Input order is irrelevant; numbering tracks display order.
	questions := []Question{
		{ID: 9, DisplayOrder: 90, Annotation: "late"},
		{ID: 1, DisplayOrder: 10, Annotation: "early"},
	}
	numbers := AnnotationNumbers(questions)
	require.Equal(t, 1, numbers[1])
	require.Equal(t, 2, numbers[9])
}

func TestAnnotationNumbersEmpty(t *testing.T) {
	require.Empty(t, AnnotationNumbers(nil))
	require.Empty(t, AnnotationNumbers([]Question{{ID: 1}}))
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore())

	require.NoError(t, Seed(ctx, store, testOrg))
	first, err := store.LoadQuestions(ctx, testOrg)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, Seed(ctx, store, testOrg))
	second, err := store.LoadQuestions(ctx, testOrg)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
