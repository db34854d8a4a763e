package notify

import (
	"context"
	"fmt"

	"github.com/salu-0/rubbereco-api/internal/domain"
)

// Per-kind factories. Each maps a domain payload into the generic record
// shape with the fixed action list and priority for that kind, then appends
// through the store. The title/message strings are what the dashboard
// renders verbatim.

// AddTapperRequest records a farmer's request for a rubber tapper.
func (s *Store) AddTapperRequest(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeTapperRequest,
		Title:    "New Tapping Request",
		Message:  fmt.Sprintf("%s needs a tapper for %d trees at %s", p.Originator.Name, p.NumberOfTrees, p.FarmLocation),
		Priority: domain.PriorityHigh,
		Data:     p,
		Actions: []domain.Action{
			{Label: "Assign Tapper", Kind: domain.ActionAssign},
			{Label: "Contact Farmer", Kind: domain.ActionContact},
		},
	})
}

// AddStaffRequest records a new staff application.
func (s *Store) AddStaffRequest(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeStaffRequest,
		Title:    "New Staff Application",
		Message:  fmt.Sprintf("%s applied for a staff position", p.Originator.Name),
		Priority: domain.PriorityNormal,
		Data:     p,
		Actions: []domain.Action{
			{Label: "Review Application", Kind: domain.ActionView},
			{Label: "Contact Applicant", Kind: domain.ActionContact},
		},
	})
}

// AddLandRegistration records a landowner registering a plot.
func (s *Store) AddLandRegistration(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeLandRegistration,
		Title:    "New Land Registration",
		Message:  fmt.Sprintf("%s registered land at %s", p.Originator.Name, p.FarmLocation),
		Priority: domain.PriorityNormal,
		Data:     p,
		Actions: []domain.Action{
			{Label: "Review Registration", Kind: domain.ActionView},
			{Label: "Contact Owner", Kind: domain.ActionContact},
		},
	})
}

// AddLandLease records a land lease offer.
func (s *Store) AddLandLease(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeLandLease,
		Title:    "New Land Lease Offer",
		Message:  fmt.Sprintf("%s offered land for lease at %s (%s)", p.Originator.Name, p.FarmLocation, p.LeaseDuration),
		Priority: domain.PriorityNormal,
		Data:     p,
		Actions: []domain.Action{
			{Label: "View Details", Kind: domain.ActionView},
			{Label: "Contact Owner", Kind: domain.ActionContact},
		},
	})
}

// AddServiceRequest records a service ticket. Urgent tickets surface as high priority.
func (s *Store) AddServiceRequest(ctx context.Context, p domain.Payload) domain.Notification {
	priority := domain.PriorityNormal
	if p.Urgency == "high" || p.Urgency == "urgent" {
		priority = domain.PriorityHigh
	}
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeServiceRequest,
		Title:    "New Service Request",
		Message:  fmt.Sprintf("%s requested %s", p.Originator.Name, p.ServiceType),
		Priority: priority,
		Data:     p,
		Actions: []domain.Action{
			{Label: "Assign Staff", Kind: domain.ActionAssign},
			{Label: "Contact Requester", Kind: domain.ActionContact},
		},
	})
}

// AddTenancyOffering records a tenancy offering on registered land.
func (s *Store) AddTenancyOffering(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeTenancyOffering,
		Title:    "New Tenancy Offering",
		Message:  fmt.Sprintf("%s offered a tenancy at %s", p.Originator.Name, p.FarmLocation),
		Priority: domain.PriorityNormal,
		Data:     p,
		Actions: []domain.Action{
			{Label: "View Offering", Kind: domain.ActionView},
			{Label: "Contact Owner", Kind: domain.ActionContact},
		},
	})
}

// AddLeaveRequest records a staff leave request.
func (s *Store) AddLeaveRequest(ctx context.Context, p domain.Payload) domain.Notification {
	return s.add(ctx, domain.Notification{
		Type:     domain.TypeLeaveRequest,
		Title:    "Staff Leave Request",
		Message:  fmt.Sprintf("%s requested leave starting %s", p.Originator.Name, p.StartDate),
		Priority: domain.PriorityNormal,
		Data:     p,
		Actions: []domain.Action{
			{Label: "Review Request", Kind: domain.ActionView},
		},
	})
}
