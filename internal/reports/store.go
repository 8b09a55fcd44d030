package reports

import (
	"context"
	"encoding/json"

	"github.com/pulse-hr/pulse/internal/platform/kv"
)

// Store appends and lists submissions in injected key-value storage.
type Store struct {
	kv kv.Store
}

// NewStore constructs a Store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func submissionsKey(orgID string) string {
	return "submissions:" + orgID
}

// Record appends a submission to the organization's log. Each submission is
// one list element, so concurrent deliveries from the worker pool never
// overwrite each other.
func (s *Store) Record(ctx context.Context, submission Submission) error {
	data, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	return s.kv.Append(ctx, submissionsKey(submission.OrgID), data)
}

// List returns every recorded submission for the organization, oldest first.
func (s *Store) List(ctx context.Context, orgID string) ([]Submission, error) {
	elements, err := s.kv.Elements(ctx, submissionsKey(orgID))
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	submissions := make([]Submission, 0, len(elements))
	for _, data := range elements {
		var submission Submission
		if err := json.Unmarshal(data, &submission); err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	return submissions, nil
}
