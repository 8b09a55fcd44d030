package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pulse-hr/pulse/internal/platform/kv"
)

// Store persists the question catalog and per-customer annotation overlays
// in injected key-value storage. It is constructed once at startup and
// passed to its consumers; there is no module-level cache.
type Store struct {
	kv kv.Store
}

// NewStore constructs a Store over the given storage.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func catalogKey(orgID string) string {
	return "catalog:" + orgID
}

func annotationKey(orgID, customerID string) string {
	return fmt.Sprintf("annotations:%s:%s", orgID, customerID)
}

func sequenceKey(orgID string) string {
	return "catalog_seq:" + orgID
}

// NextQuestionID allocates the next question identifier. The sequence only
// moves forward, so an ID freed by deleting a question is never handed out
// again and stale per-customer annotations cannot attach to a new question.
func (s *Store) NextQuestionID(ctx context.Context, orgID string) (int64, error) {
	var last int64
	data, err := s.kv.Get(ctx, sequenceKey(orgID))
	switch {
	case err == nil:
		last, err = strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return 0, err
		}
	case errors.Is(err, kv.ErrNoKey):
		// Catalogs seeded before the sequence existed resume above their
		// highest stored ID.
		questions, err := s.LoadQuestions(ctx, orgID)
		if err != nil {
			return 0, err
		}
		for _, q := range questions {
			if q.ID > last {
				last = q.ID
			}
		}
	default:
		return 0, err
	}
	next := last + 1
	if err := s.kv.Set(ctx, sequenceKey(orgID), []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, err
	}
	return next, nil
}

// LoadQuestions returns the stored catalog, empty when none exists yet.
func (s *Store) LoadQuestions(ctx context.Context, orgID string) ([]Question, error) {
	data, err := s.kv.Get(ctx, catalogKey(orgID))
	if err != nil {
		if errors.Is(err, kv.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SaveQuestions replaces the stored catalog.
func (s *Store) SaveQuestions(ctx context.Context, orgID string, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, catalogKey(orgID), data)
}

// LoadAnnotations returns the per-question annotation overlay for one
// customer, keyed by question ID.
func (s *Store) LoadAnnotations(ctx context.Context, orgID, customerID string) (map[int64]string, error) {
	data, err := s.kv.Get(ctx, annotationKey(orgID, customerID))
	if err != nil {
		if errors.Is(err, kv.ErrNoKey) {
			return map[int64]string{}, nil
		}
		return nil, err
	}
	var overlay map[int64]string
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}
	if overlay == nil {
		overlay = map[int64]string{}
	}
	return overlay, nil
}

// SaveAnnotations replaces a customer's annotation overlay.
func (s *Store) SaveAnnotations(ctx context.Context, orgID, customerID string, overlay map[int64]string) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, annotationKey(orgID, customerID), data)
}
