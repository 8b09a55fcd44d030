package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/shared"
)

// Repository defines directory access used by the authentication backend.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Save(ctx context.Context, account Account) error
}

// DirectoryRepository keeps accounts in injected key-value storage, one
// record per normalized email.
type DirectoryRepository struct {
	store kv.Store
}

// NewRepository constructs a DirectoryRepository.
func NewRepository(store kv.Store) *DirectoryRepository {
	return &DirectoryRepository{store: store}
}

func accountKey(email string) string {
	return "account:" + strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail loads an account record.
func (r *DirectoryRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	data, err := r.store.Get(ctx, accountKey(email))
	if err != nil {
		if errors.Is(err, kv.ErrNoKey) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Save writes an account record.
func (r *DirectoryRepository) Save(ctx context.Context, account Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, accountKey(account.Email), data)
}
