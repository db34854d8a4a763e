package notify

import (
	"fmt"
	"time"

	"github.com/salu-0/rubbereco-api/internal/domain"
)

// PendingCounts are the live counters the parent container supplies on each
// feed request: work sitting in other subsystems that has no durable record.
type PendingCounts struct {
	StaffApplications int `json:"staff_applications"`
	TappingRequests   int `json:"tapping_requests"`
	LandRegistrations int `json:"land_registrations"`
}

// Sum is the total pending work across all counters.
func (c PendingCounts) Sum() int {
	return c.StaffApplications + c.TappingRequests + c.LandRegistrations
}

// Deterministic ids for ephemeral records: repeated projections of the same
// counter category always produce the same identity.
const (
	EphemeralStaffID = "pending-staff-applications"
	EphemeralTapID   = "pending-tapping-requests"
	EphemeralLandID  = "pending-land-registrations"
)

// ProjectPending turns the counters into zero or more transient records, one
// per category with a positive count. The records are never persisted and
// never enter the store; they vanish as soon as their counter drops to zero.
func ProjectPending(c PendingCounts) []domain.Notification {
	now := time.Now().UTC()
	var out []domain.Notification

	if c.StaffApplications > 0 {
		out = append(out, ephemeral(EphemeralStaffID, domain.TypeStaffRequest,
			"Pending Staff Applications",
			pluralize(c.StaffApplications, "staff application is", "staff applications are")+" awaiting review",
			now))
	}
	if c.TappingRequests > 0 {
		out = append(out, ephemeral(EphemeralTapID, domain.TypeTapperRequest,
			"Pending Tapping Requests",
			pluralize(c.TappingRequests, "tapping request is", "tapping requests are")+" awaiting assignment",
			now))
	}
	if c.LandRegistrations > 0 {
		out = append(out, ephemeral(EphemeralLandID, domain.TypeLandRegistration,
			"Pending Land Registrations",
			pluralize(c.LandRegistrations, "land registration is", "land registrations are")+" awaiting approval",
			now))
	}
	return out
}

func ephemeral(id string, t domain.NotificationType, title, message string, now time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		Type:      t,
		Title:     title,
		Message:   message,
		Timestamp: now,
		Read:      false,
		Priority:  domain.PriorityHigh,
		Actions:   []domain.Action{{Label: "Review Pending", Kind: domain.ActionView}},
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
