package po

import (
	"strings"
	"time"

	"storefront/domain/user"
)

// AccountPO Account persistence object. Usernames and emails are stored
// lower-cased in the lookup columns so uniqueness is case-insensitive.
type AccountPO struct {
	ID            string    `gorm:"primaryKey;size:64"`
	Username      string    `gorm:"size:100;not null"`
	UsernameLower string    `gorm:"size:100;uniqueIndex;not null"`
	Email         string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"size:255;not null"`
	FirstName     string    `gorm:"size:100"`
	LastName      string    `gorm:"size:100"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (AccountPO) TableName() string {
	return "accounts"
}

func FromAccountDomain(a *user.Account) *AccountPO {
	return &AccountPO{
		ID:            a.ID,
		Username:      a.Username,
		UsernameLower: strings.ToLower(strings.TrimSpace(a.Username)),
		Email:         user.NormalizeEmail(a.Email),
		PasswordHash:  a.PasswordHash,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		CreatedAt:     a.CreatedAt,
	}
}

func (po *AccountPO) ToDomain() *user.Account {
	return &user.Account{
		User: user.User{
			ID:        po.ID,
			Username:  po.Username,
			Email:     po.Email,
			FirstName: po.FirstName,
			LastName:  po.LastName,
		},
		PasswordHash: po.PasswordHash,
		CreatedAt:    po.CreatedAt,
	}
}
