package domain

import "time"

// Profile holds the optional self-description a member maintains.
type Profile struct {
	AccountID string `json:"account_id"`
	Biography string `json:"biography,omitempty"`
	Company   string `json:"company,omitempty"`
	Position  string `json:"position,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Skill is one entry of a member's skill list.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// EventRegistration records a member's signup for a portal event.
type EventRegistration struct {
	EventID      string    `json:"event_id"`
	EventTitle   string    `json:"event_title"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Subscription is a newsletter or mailing-list membership.
type Subscription struct {
	Topic        string    `json:"topic"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// UserDataExport is the complete GDPR data-portability payload for one
// account: the account record itself plus every dependent record the
// portal stores about the member.
type UserDataExport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	Account            Account             `json:"account"`
	Profile            *Profile            `json:"profile,omitempty"`
	Skills             []Skill             `json:"skills"`
	EventRegistrations []EventRegistration `json:"event_registrations"`
	Subscriptions      []Subscription      `json:"subscriptions"`
}
