package catalog

import "context"

// Seed provisions a starter catalog when none exists. Used outside
// production so a fresh install has a survey to answer.
func Seed(ctx context.Context, store *Store, orgID string) error {
	existing, err := store.LoadQuestions(ctx, orgID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	questions := []Question{
		{ID: 1, Text: "My manager communicates a clear direction for the team", Type: QuestionRating, Category: "Leadership", DisplayOrder: 10},
		{ID: 2, Text: "I receive useful feedback on my work", Type: QuestionRating, Category: "Leadership", DisplayOrder: 20},
		{ID: 3, Text: "Decisions that affect me are explained openly", Type: QuestionRating, Category: "Communication", DisplayOrder: 30},
		{ID: 4, Text: "I can raise concerns without fear of consequences", Type: QuestionRating, Category: "Communication", DisplayOrder: 40},
		{ID: 5, Text: "Information I need to do my job reaches me in time", Type: QuestionRating, Category: "Communication", DisplayOrder: 50},
		{ID: 6, Text: "My workload is sustainable over the long term", Type: QuestionRating, Category: "Wellbeing", DisplayOrder: 60},
		{ID: 7, Text: "I can balance work with my personal life", Type: QuestionRating, Category: "Wellbeing", DisplayOrder: 70},
		{ID: 8, Text: "I have the tools and equipment I need", Type: QuestionRating, Category: "Workplace", DisplayOrder: 80},
		{ID: 9, Text: "My workplace is a safe environment", Type: QuestionRating, Category: "Workplace", DisplayOrder: 90},
		{ID: 10, Text: "I see opportunities to grow within the company", Type: QuestionRating, Category: "Development", DisplayOrder: 100},
		{ID: 11, Text: "Training offered to me matches my needs", Type: QuestionRating, Category: "Development", DisplayOrder: 110},
		{ID: 12, Text: "I would recommend this company as an employer", Type: QuestionRating, Category: "Engagement", DisplayOrder: 120},
		{ID: 13, Text: "What is the one thing we should change first?", Type: QuestionFreeText, Category: "Engagement", DisplayOrder: 130},
		{ID: 14, Text: "Anything else you want to share?", Type: QuestionFreeText, Category: "Engagement", DisplayOrder: 140},
	}
	return store.SaveQuestions(ctx, orgID, questions)
}
