package cache

import (
	"strings"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoUserID   = user.DemoUserID
	DemoUsername = user.DemoUsername
	DemoEmail    = user.DemoEmail
	DemoPassword = user.DemoPassword
)

func (s *Store) accounts() []user.Account {
	var accounts []user.Account
	s.load(keyUsers, &accounts)
	return accounts
}

func findAccount(accounts []user.Account, identifier string) int {
	id := strings.ToLower(strings.TrimSpace(identifier))
	for i, a := range accounts {
		if strings.ToLower(a.Username) == id || a.Email == id {
			return i
		}
	}
	return -1
}

// GetOrCreateDemoUser seeds the demo account and its one historical order.
func (s *Store) GetOrCreateDemoUser() (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.accounts()
	if i := findAccount(accounts, DemoUsername); i >= 0 {
		return accounts[i].Public(), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}
	demo := user.Account{
		User:         user.User{ID: DemoUserID, Username: DemoUsername, Email: DemoEmail, FirstName: "Demo", LastName: "Shopper"},
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.save(keyUsers, append(accounts, demo)); err != nil {
		return user.User{}, err
	}

	var history []order.Order
	if !s.load(ordersKey(DemoUserID), &history) || len(history) == 0 {
		if err := s.save(ordersKey(DemoUserID), []order.Order{user.DemoOrder()}); err != nil {
			return user.User{}, err
		}
	}
	s.log.Info("seeded demo account", zap.String("username", DemoUsername))
	return demo.Public(), nil
}

// RegisterUser adds an account to the mock directory.
func (s *Store) RegisterUser(c user.Credentials) (user.User, error) {
	acc, err := user.NewAccount(c)
	if err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := s.accounts()
	if findAccount(accounts, acc.Username) >= 0 {
		return user.User{}, shared.NewValidationError("user", "username", "username is already taken")
	}
	if findAccount(accounts, acc.Email) >= 0 {
		return user.User{}, shared.NewValidationError("user", "email", "user with this email already exists")
	}
	if err := s.save(keyUsers, append(accounts, *acc)); err != nil {
		return user.User{}, err
	}
	return acc.Public(), nil
}

// Authenticate checks credentials against the mock directory.
func (s *Store) Authenticate(identifier, password string) (user.User, error) {
	s.mu.Lock()
	accounts := s.accounts()
	s.mu.Unlock()

	i := findAccount(accounts, identifier)
	if i < 0 || !accounts[i].CheckPassword(password) {
		return user.User{}, shared.NewAuthError("username", "invalid username or password", nil)
	}
	return accounts[i].Public(), nil
}
