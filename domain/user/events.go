package user

import "storefront/domain/shared"

const EventRegistered = "user.registered"

type RegisteredEvent struct {
	shared.BaseEvent
	Username string
	Email    string
}

func NewRegisteredEvent(u User) *RegisteredEvent {
	return &RegisteredEvent{
		BaseEvent: shared.NewBaseEvent(EventRegistered, u.ID),
		Username:  u.Username,
		Email:     u.Email,
	}
}
