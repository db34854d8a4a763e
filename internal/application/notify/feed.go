package notify

import (
	"fmt"

	"github.com/salu-0/rubbereco-api/internal/domain"
)

// Filter selects which tab of the feed the UI is showing.
type Filter string

const (
	FilterAll            Filter = "all"
	FilterUnread         Filter = "unread"
	FilterStaffRequest   Filter = Filter(domain.TypeStaffRequest)
	FilterTapperRequest  Filter = Filter(domain.TypeTapperRequest)
	FilterLandLease      Filter = Filter(domain.TypeLandLease)
	FilterServiceRequest Filter = Filter(domain.TypeServiceRequest)
	FilterHighPriority   Filter = "high_priority"
)

// ParseFilter validates a filter key from the transport layer.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterUnread, FilterStaffRequest, FilterTapperRequest,
		FilterLandLease, FilterServiceRequest, FilterHighPriority:
		return Filter(s), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q: %w", s, domain.ErrBadRequest)
}

// Feed is the merged, filtered view the UI renders, plus the per-tab badge counts.
type Feed struct {
	Records []domain.Notification `json:"records"`
	Counts  map[Filter]int        `json:"counts"`
}

// BuildFeed merges ephemeral and durable records under the active filter and
// computes the badge count for every tab. Pure derivation: no mutation, safe
// to re-run on every store notification or counter change.
//
// Ephemeral records always sort ahead of durable ones. The land_lease and
// service_request tabs carry no ephemeral projection, so they are durable-only.
func BuildFeed(durable []domain.Notification, unreadCount int, pending PendingCounts, f Filter) Feed {
	eph := ProjectPending(pending)

	counts := map[Filter]int{
		FilterAll:            len(eph) + len(durable),
		FilterUnread:         unreadCount + pending.Sum(),
		FilterStaffRequest:   pending.StaffApplications + countByType(durable, domain.TypeStaffRequest),
		FilterTapperRequest:  pending.TappingRequests + countByType(durable, domain.TypeTapperRequest),
		FilterLandLease:      countByType(durable, domain.TypeLandLease),
		FilterServiceRequest: countByType(durable, domain.TypeServiceRequest),
		FilterHighPriority:   len(eph) + countHighPriority(durable),
	}

	var records []domain.Notification
	switch f {
	case FilterAll:
		records = append(records, eph...)
		records = append(records, durable...)
	case FilterUnread:
		// Ephemeral records are unread by construction, so all of them qualify.
		records = append(records, eph...)
		for _, n := range durable {
			if !n.Read {
				records = append(records, n)
			}
		}
	case FilterStaffRequest, FilterTapperRequest:
		for _, n := range eph {
			if Filter(n.Type) == f {
				records = append(records, n)
			}
		}
		for _, n := range durable {
			if Filter(n.Type) == f {
				records = append(records, n)
			}
		}
	case FilterLandLease, FilterServiceRequest:
		for _, n := range durable {
			if Filter(n.Type) == f {
				records = append(records, n)
			}
		}
	case FilterHighPriority:
		// Ephemeral records are always high priority.
		records = append(records, eph...)
		for _, n := range durable {
			if n.Priority == domain.PriorityHigh {
				records = append(records, n)
			}
		}
	}

	return Feed{Records: records, Counts: counts}
}

func countByType(records []domain.Notification, t domain.NotificationType) int {
	count := 0
	for _, n := range records {
		if n.Type == t {
			count++
		}
	}
	return count
}

func countHighPriority(records []domain.Notification) int {
	count := 0
	for _, n := range records {
		if n.Priority == domain.PriorityHigh {
			count++
		}
	}
	return count
}
