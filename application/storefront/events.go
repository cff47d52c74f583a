package storefront

import (
	"storefront/domain/shared"
	"storefront/domain/user"
)

const (
	EventSignedIn            = "session.signed_in"
	EventSignedOut           = "session.signed_out"
	EventSignInRequired      = "session.sign_in_required"
	EventCartChanged         = "cart.changed"
	EventWishlistChanged     = "wishlist.changed"
	EventAvailabilityChanged = "backend.availability_changed"
)

// SessionEvent is published on sign-in and sign-out.
type SessionEvent struct {
	shared.BaseEvent
	Username string `json:"username"`
	Offline  bool   `json:"offline"`
}

// SignInRequiredEvent asks the view to show the sign-in prompt.
type SignInRequiredEvent struct {
	shared.BaseEvent
	Action string `json:"action"`
}

type CartChangedEvent struct {
	shared.BaseEvent
	Lines     int `json:"lines"`
	ItemCount int `json:"itemCount"`
}

type WishlistChangedEvent struct {
	shared.BaseEvent
	ProductID string              `json:"productId"`
	Action    user.WishlistAction `json:"action"`
	Size      int                 `json:"size"`
}

type AvailabilityEvent struct {
	shared.BaseEvent
	Available bool `json:"available"`
}

func newSessionEvent(name string, u user.User, offline bool) SessionEvent {
	return SessionEvent{BaseEvent: shared.NewBaseEvent(name, u.ID), Username: u.Username, Offline: offline}
}

func newSignInRequiredEvent(action string) SignInRequiredEvent {
	return SignInRequiredEvent{BaseEvent: shared.NewBaseEvent(EventSignInRequired, "anonymous"), Action: action}
}

func newAvailabilityEvent(available bool) AvailabilityEvent {
	return AvailabilityEvent{BaseEvent: shared.NewBaseEvent(EventAvailabilityChanged, "backend"), Available: available}
}
