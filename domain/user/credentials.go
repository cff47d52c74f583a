package user

import (
	"regexp"
	"strings"

	"storefront/domain/shared"
)

const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)

// Credentials is what the sign-in and registration forms submit.
type Credentials struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail applies the loose something@something.tld rule.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateLogin requires an identifier and a password.
func (c Credentials) ValidateLogin() error {
	if strings.TrimSpace(c.Username) == "" {
		return shared.NewValidationError("user", "username", "username is required")
	}
	if c.Password == "" {
		return shared.NewValidationError("user", "password", "password is required")
	}
	return nil
}

// ValidateRegistration adds the email and password-length rules.
func (c Credentials) ValidateRegistration() error {
	if err := c.ValidateLogin(); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(c.Email) == "":
		return shared.NewValidationError("user", "email", "email is required")
	case !ValidEmail(c.Email):
		return shared.NewValidationError("user", "email", "email is invalid")
	case len(c.Password) < MinPasswordLength:
		return shared.NewValidationError("user", "password", "password must be at least 6 characters")
	}
	return nil
}
