package memory

import (
	"context"
	"strings"
	"sync"

	"storefront/domain/shared"
	"storefront/domain/user"
)

// AccountRepository In-memory account store. Usernames and emails are unique,
// compared case-insensitively.
type AccountRepository struct {
	accounts map[string]user.Account
	mu       sync.RWMutex
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]user.Account)}
}

func (r *AccountRepository) Save(ctx context.Context, a *user.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, other := range r.accounts {
		if id == a.ID {
			continue
		}
		if strings.EqualFold(other.Username, a.Username) {
			return shared.NewDuplicateError("user", "username", "username is already taken")
		}
		if strings.EqualFold(other.Email, a.Email) {
			return shared.NewDuplicateError("user", "email", "user with this email already exists")
		}
	}
	stored := *a
	stored.Orders = nil
	r.accounts[a.ID] = stored
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*user.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, shared.NewNotFoundError("user")
	}
	return &a, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*user.Account, error) {
	return r.find(func(a user.Account) bool {
		return strings.EqualFold(a.Username, username) || strings.EqualFold(a.Email, username)
	})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*user.Account, error) {
	return r.find(func(a user.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *AccountRepository) find(match func(user.Account) bool) (*user.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, shared.NewNotFoundError("user")
}

var _ user.Repository = (*AccountRepository)(nil)
