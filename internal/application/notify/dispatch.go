package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/smtp"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/sns"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/snapshot"
)

// Dispatcher resolves a chosen action on a record into its side effect and
// then marks the record read. Read state tracks "was acted upon", not
// "action completed": a failed delivery still marks the record read.
type Dispatcher struct {
	store  *Store
	bus    *HandoffBus
	snap   snapshot.Store
	mailer smtp.Mailer   // optional, nil disables server-side email delivery
	sms    sns.SMSSender // optional, nil disables server-side SMS delivery
}

func NewDispatcher(store *Store, bus *HandoffBus, snap snapshot.Store, mailer smtp.Mailer, sms sns.SMSSender) *Dispatcher {
	return &Dispatcher{store: store, bus: bus, snap: snap, mailer: mailer, sms: sms}
}

// Result describes the side effect a dispatch produced.
type Result struct {
	Handoff    *domain.AssignmentHandoff `json:"handoff,omitempty"`
	ContactURI string                    `json:"contact_uri,omitempty"`
	Delivered  bool                      `json:"delivered"`
}

// Dispatch executes the side effect for (record, action kind). The record
// must declare the chosen kind; contact dispatches additionally require a
// channel. Every successful resolution ends with MarkAsRead, unconditionally.
func (d *Dispatcher) Dispatch(ctx context.Context, rec domain.Notification, kind domain.ActionKind, channel domain.ContactChannel) (Result, error) {
	if !declares(rec, kind) {
		return Result{}, fmt.Errorf("notification %s does not offer action %q: %w", rec.ID, kind, domain.ErrBadRequest)
	}

	var res Result
	switch kind {
	case domain.ActionAssign:
		res = d.assign(ctx, rec)
	case domain.ActionContact:
		var err error
		res, err = d.contact(ctx, rec, channel)
		if err != nil {
			return Result{}, err
		}
	case domain.ActionView:
		// Navigation happens client-side; nothing to do here.
	default:
		return Result{}, fmt.Errorf("unknown action kind %q: %w", kind, domain.ErrBadRequest)
	}

	d.store.MarkAsRead(ctx, rec.ID)
	return res, nil
}

// LatestHandoff reads the persisted handoff slot, for consumers that mounted
// after the assign event fired.
func (d *Dispatcher) LatestHandoff(ctx context.Context) (*domain.AssignmentHandoff, error) {
	if d.snap == nil {
		return nil, domain.ErrNotFound
	}
	data, err := d.snap.Load(ctx, snapshot.KeyHandoff)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var h domain.AssignmentHandoff
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("corrupt handoff slot: %w", err)
	}
	return &h, nil
}

// assign stores the payload in the handoff slot (overwritten each time) and
// broadcasts it on the bus so a mounted assignment view reacts immediately.
func (d *Dispatcher) assign(ctx context.Context, rec domain.Notification) Result {
	h := domain.AssignmentHandoff{
		NotificationID: rec.ID,
		Type:           rec.Type,
		Payload:        rec.Data,
		At:             time.Now().UTC(),
	}
	if d.snap != nil {
		if data, err := json.Marshal(h); err == nil {
			if err := d.snap.Save(ctx, snapshot.KeyHandoff, data); err != nil {
				slog.Warn("could not persist handoff slot", "notification_id", rec.ID, "err", err)
			}
		}
	}
	d.bus.Publish(h)
	return Result{Handoff: &h}
}

// contact builds the channel URI from the originator fields and, when a
// delivery backend is configured, also sends server-side. Missing or
// malformed contact fields are not validated here; a bad tel: link is the
// presentation layer's problem.
func (d *Dispatcher) contact(ctx context.Context, rec domain.Notification, channel domain.ContactChannel) (Result, error) {
	origin := rec.Data.Originator
	switch channel {
	case domain.ChannelCall:
		return Result{ContactURI: "tel:" + origin.Phone}, nil

	case domain.ChannelEmail:
		subject := "RubberEco: " + rec.Title
		body := fmt.Sprintf("Hello %s,\n\nRegarding: %s\n%s\n\nThank you,\nRubberEco Team",
			origin.Name, rec.Title, rec.Message)
		uri := fmt.Sprintf("mailto:%s?subject=%s&body=%s", origin.Email, escape(subject), escape(body))
		delivered := false
		if d.mailer != nil {
			if err := d.mailer.SendEmail(origin.Email, subject, body); err != nil {
				slog.Warn("contact email delivery failed", "to", origin.Email, "err", err)
			} else {
				delivered = true
			}
		}
		return Result{ContactURI: uri, Delivered: delivered}, nil

	case domain.ChannelSMS:
		text := fmt.Sprintf("Hello %s, this is RubberEco regarding: %s", origin.Name, rec.Title)
		uri := fmt.Sprintf("sms:%s?body=%s", origin.Phone, escape(text))
		delivered := false
		if d.sms != nil {
			if err := d.sms.SendSMS(ctx, origin.Phone, text); err != nil {
				slog.Warn("contact sms delivery failed", "to", origin.Phone, "err", err)
			} else {
				delivered = true
			}
		}
		return Result{ContactURI: uri, Delivered: delivered}, nil
	}
	return Result{}, fmt.Errorf("unknown contact channel %q: %w", channel, domain.ErrBadRequest)
}

func declares(rec domain.Notification, kind domain.ActionKind) bool {
	for _, a := range rec.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// escape percent-encodes a string for mailto:/sms: URIs. QueryEscape uses
// '+' for spaces, which mail clients do not decode, hence the replacement.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
