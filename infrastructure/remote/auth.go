package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/cache"

	"go.uber.org/zap"
)

type loginBody struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Login authenticates and stores the token. Rejected credentials and an
// unreachable backend both surface as AuthError; the latter also matches
// shared.ErrNetwork.
func (c *Client) Login(ctx context.Context, username, password string) (user.User, error) {
	creds := user.Credentials{Username: username, Password: password}
	if err := creds.ValidateLogin(); err != nil {
		return user.User{}, err
	}
	body := loginBody{Username: strings.TrimSpace(username), Password: password}
	if strings.Contains(body.Username, "@") {
		body.Email = body.Username
	}

	p, err := c.send(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: body})
	switch {
	case err == nil:
	case unreachable(err):
		return user.User{}, shared.NewAuthError("", "cannot reach the store right now", err)
	case errors.Is(err, shared.ErrAuthRequired), errors.Is(err, shared.ErrForbidden), errors.Is(err, shared.ErrNotFound):
		return user.User{}, shared.NewAuthError("password", "invalid username or password", nil)
	default:
		return user.User{}, shared.NewAuthError("", messageOf(err), err)
	}
	return c.establish(p, "login")
}

// Register creates an account and signs in. Duplicate usernames or emails
// are reported as validation errors on the offending field.
func (c *Client) Register(ctx context.Context, creds user.Credentials) (user.User, error) {
	if err := creds.ValidateRegistration(); err != nil {
		return user.User{}, err
	}
	creds.Email = user.NormalizeEmail(creds.Email)

	p, err := c.send(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", body: creds})
	if err != nil {
		se, ok := asStatus(err)
		if !ok || (se.Status != http.StatusConflict && se.Status != http.StatusBadRequest && se.Status != http.StatusUnprocessableEntity) {
			return user.User{}, err
		}
		field := se.Field
		if field == "" {
			field = "username"
			if strings.Contains(strings.ToLower(se.Message), "email") {
				field = "email"
			}
		}
		return user.User{}, shared.NewValidationError("user", field, se.Message)
	}
	return c.establish(p, "register")
}

// establish reads {token, user} and persists the session.
func (c *Client) establish(p payload, op string) (user.User, error) {
	obj, ok := p.object()
	if !ok {
		return user.User{}, shared.NewAuthError("", "unexpected "+op+" response", shared.NewMalformedDataError("session", "response is "+p.data().kind.String()))
	}
	token := obj.String("token", "accessToken", "access_token")
	userRec, ok := obj.Object("user")
	if !ok {
		userRec = obj
	}
	u, err := user.FromRecord(userRec)
	if err != nil {
		return user.User{}, shared.NewAuthError("", "unexpected "+op+" response", err)
	}
	if token == "" {
		return user.User{}, shared.NewAuthError("", op+" response carried no token", nil)
	}

	c.SetToken(token)
	if c.slot != nil {
		if err := c.slot.SaveSession(cache.SessionState{User: u, Token: token}); err != nil {
			c.log.Warn("failed to persist session", zap.Error(err))
		}
	}
	return u, nil
}

// Logout ends the session. The token and the persisted slot are cleared even
// when the backend call fails; that failure is still returned.
func (c *Client) Logout(ctx context.Context) error {
	defer func() {
		c.SetToken("")
		if c.slot != nil {
			if err := c.slot.ClearSession(); err != nil {
				c.log.Warn("failed to clear session", zap.Error(err))
			}
		}
	}()
	if !c.Authenticated() {
		return nil
	}
	_, err := c.send(ctx, call{op: "logout", method: http.MethodPost, path: "/auth/logout", auth: true})
	return err
}

// Profile returns the signed-in user as the backend knows it.
func (c *Client) Profile(ctx context.Context) (user.User, error) {
	p, err := c.send(ctx, call{op: "get profile", method: http.MethodGet, path: "/users/me", auth: true, idempotent: true})
	if err != nil {
		return user.User{}, err
	}
	rec, ok := p.object("user")
	if !ok {
		return user.User{}, shared.NewMalformedDataError("user", "profile response is "+p.data().kind.String())
	}
	return user.FromRecord(rec)
}

func messageOf(err error) string {
	if se, ok := asStatus(err); ok {
		return se.Message
	}
	return err.Error()
}
