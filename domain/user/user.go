/*
Package user holds the shopper identity, the server-side account with its
password hash, credential rules, and the wishlist.
*/
package user

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is the authenticated shopper as the storefront sees it.
type User struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName string        `json:"firstName,omitempty"`
	LastName  string        `json:"lastName,omitempty"`
	Orders    []order.Order `json:"orders,omitempty"`
}

// FromRecord reads a user from an auth or profile response.
func FromRecord(rec shared.Record) (User, error) {
	u := User{
		ID:        rec.String("id", "userId", "user_id"),
		Username:  rec.String("username", "userName", "name"),
		Email:     rec.String("email"),
		FirstName: rec.String("firstName", "first_name"),
		LastName:  rec.String("lastName", "last_name"),
	}
	if u.ID == "" {
		return User{}, shared.NewMalformedDataError("user", "missing id")
	}
	if u.Username == "" {
		u.Username = u.Email
	}
	if orders, ok := rec.Records("orders"); ok {
		u.Orders, _ = order.FromRecords(orders)
	}
	return u, nil
}

// Account is a stored identity with its password hash.
type Account struct {
	User
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAccount validates the credentials and hashes the password.
func NewAccount(c Credentials) (*Account, error) {
	if err := c.ValidateRegistration(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Account{
		User: User{
			ID:        id.String(),
			Username:  c.Username,
			Email:     NormalizeEmail(c.Email),
			FirstName: c.FirstName,
			LastName:  c.LastName,
		},
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// CheckPassword compares password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// Public strips the account down to the shopper view.
func (a *Account) Public() User {
	u := a.User
	u.Orders = nil
	return u
}
