package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
)

// SeedAccount describes one development account to provision.
type SeedAccount struct {
	Email    string
	Password string
	Role     identity.Role
	Kind     identity.Kind
}

// DefaultSeedAccounts are the development identities provisioned at startup
// outside production: one per role tier plus an employee respondent.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Email: "master@pulse.local", Password: "masterpass", Role: identity.RoleMaster, Kind: identity.KindHR},
		{Email: "admin@pulse.local", Password: "adminpass1", Role: identity.RoleAdmin, Kind: identity.KindHR},
		{Email: "member@pulse.local", Password: "memberpass", Role: identity.RoleMember, Kind: identity.KindHR},
		{Email: "employee@pulse.local", Password: "employeepw", Role: identity.RoleMember, Kind: identity.KindEmployee},
	}
}

// Seed provisions accounts that do not exist yet. Existing records are left
// untouched so local password changes survive restarts.
func Seed(ctx context.Context, repo Repository, orgID string, accounts []SeedAccount) error {
	for _, seed := range accounts {
		_, err := repo.FindByEmail(ctx, seed.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		account := Account{
			ID:           uuid.NewString(),
			Email:        seed.Email,
			PasswordHash: string(hash),
			OrgID:        orgID,
			Role:         seed.Role,
			Kind:         seed.Kind,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
