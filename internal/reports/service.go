package reports

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/survey"
)

// CatalogSource lists the question catalog for category lookup.
type CatalogSource interface {
	ListQuestions(ctx context.Context, orgID string) ([]catalog.Question, error)
}

// Service aggregates submissions into per-category summaries. Concurrent
// requests for the same org share one computation via singleflight.
type Service struct {
	store      *Store
	catalog    CatalogSource
	catalogOrg string
	group      singleflight.Group
}

// NewService constructs a Service. catalogOrg names the organization owning
// the question catalog.
func NewService(store *Store, source CatalogSource, catalogOrg string) *Service {
	return &Service{store: store, catalog: source, catalogOrg: catalogOrg}
}

// Overview is the rendered report: summaries plus submission volume.
type Overview struct {
	Submissions int               `json:"submissions"`
	Categories  []CategorySummary `json:"categories"`
}

// Summary computes the aggregated report for an organization's submissions.
func (s *Service) Summary(ctx context.Context, orgID string) (Overview, error) {
	result, err, _ := s.group.Do(orgID, func() (any, error) {
		return s.computeSummary(ctx, orgID)
	})
	if err != nil {
		return Overview{}, err
	}
	return result.(Overview), nil
}

func (s *Service) computeSummary(ctx context.Context, orgID string) (Overview, error) {
	questions, err := s.catalog.ListQuestions(ctx, s.catalogOrg)
	if err != nil {
		return Overview{}, fmt.Errorf("reports: load catalog: %w", err)
	}
	categoryOf := make(map[int64]string, len(questions))
	for _, q := range questions {
		categoryOf[q.ID] = q.Category
	}

	submissions, err := s.store.List(ctx, orgID)
	if err != nil {
		return Overview{}, fmt.Errorf("reports: load submissions: %w", err)
	}

	type bucket struct {
		ratings       int
		notApplicable int
		comments      int
		total         int
	}
	buckets := make(map[string]*bucket)
	for _, submission := range submissions {
		for _, answer := range submission.Answers {
			category, ok := categoryOf[answer.QuestionID]
			if !ok {
				// Question was removed from the catalog after submission.
				continue
			}
			b := buckets[category]
			if b == nil {
				b = &bucket{}
				buckets[category] = b
			}
			if answer.Type == catalog.QuestionFreeText {
				b.comments++
				continue
			}
			if answer.Rating == survey.RatingMin {
				b.notApplicable++
				continue
			}
			b.ratings++
			b.total += answer.Rating
		}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		return collator.CompareString(names[i], names[j]) < 0
	})

	summaries := make([]CategorySummary, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		summary := CategorySummary{
			Category:      name,
			Ratings:       b.ratings,
			NotApplicable: b.notApplicable,
			Comments:      b.comments,
		}
		if b.ratings > 0 {
			summary.Average = float64(b.total) / float64(b.ratings)
		}
		summaries = append(summaries, summary)
	}
	return Overview{Submissions: len(submissions), Categories: summaries}, nil
}
