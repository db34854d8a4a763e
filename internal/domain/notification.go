package domain

import "time"

// NotificationType identifies which dashboard workflow produced a record.
// It drives icon selection, filter-tab membership and the fixed action list.
type NotificationType string

const (
	TypeTapperRequest    NotificationType = "tapper_request"
	TypeStaffRequest     NotificationType = "staff_request"
	TypeLandRegistration NotificationType = "land_registration"
	TypeLandLease        NotificationType = "land_lease"
	TypeServiceRequest   NotificationType = "service_request"
	TypeTenancyOffering  NotificationType = "tenancy_offering"
	TypeLeaveRequest     NotificationType = "leave_request"
)

// Priority selects badge rendering and the high-priority filter.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ActionKind is the tagged variant behind a notification action. The
// dispatcher switches on it exhaustively; there is no string fall-through.
type ActionKind string

const (
	// ActionAssign hands the record's payload off to the assignment view.
	ActionAssign ActionKind = "assign"
	// ActionContact opens an external channel (call, email, sms) to the originator.
	ActionContact ActionKind = "contact"
	// ActionView opens the record in the dashboard; no side effect beyond marking read.
	ActionView ActionKind = "view"
)

// ContactChannel is the external channel chosen for an ActionContact dispatch.
type ContactChannel string

const (
	ChannelCall  ContactChannel = "call"
	ChannelEmail ContactChannel = "email"
	ChannelSMS   ContactChannel = "sms"
)

// Action declares one side effect a record's UI may offer.
type Action struct {
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
}

// Contact identifies the person who originated a notification.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Payload carries the kind-specific details of a notification. The store
// treats it as opaque; only the presenter and the dispatcher interpret it.
type Payload struct {
	Originator    Contact           `json:"originator"`
	FarmLocation  string            `json:"farm_location,omitempty"`
	NumberOfTrees int               `json:"number_of_trees,omitempty"`
	StartDate     string            `json:"start_date,omitempty"`
	Urgency       string            `json:"urgency,omitempty"`
	BudgetRange   string            `json:"budget_range,omitempty"`
	LeaseDuration string            `json:"lease_duration,omitempty"`
	ServiceType   string            `json:"service_type,omitempty"`
	Description   string            `json:"description,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Notification is a single feed record. Durable records are created through
// the store's per-kind factories and mutated only via the store API; ephemeral
// records share the shape but are recomputed from pending counters on every
// feed request and never persisted.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	Priority  Priority         `json:"priority"`
	Data      Payload          `json:"data"`
	Actions   []Action         `json:"actions"`
}

// AssignmentHandoff is the one-shot payload published when an assign action
// fires. The target view pre-fills its initial state from it; late mounters
// read the persisted handoff slot instead.
type AssignmentHandoff struct {
	NotificationID string           `json:"notification_id"`
	Type           NotificationType `json:"type"`
	Payload        Payload          `json:"payload"`
	At             time.Time        `json:"at"`
}
