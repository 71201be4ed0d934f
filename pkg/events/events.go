// Package events publishes lead lifecycle events for downstream consumers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Event types double as AMQP routing keys
const (
	TypeLeadCreated       = "lead.created"
	TypeLeadUpdated       = "lead.updated"
	TypeLeadAssigned      = "lead.assigned"
	TypeLeadDispositioned = "lead.dispositioned"
	TypeLeadDeleted       = "lead.deleted"
	TypeEmailSent         = "email.sent"
)

// Event is the JSON payload published for each lead mutation
type Event struct {
	Type            string             `json:"type"`
	LeadID          string             `json:"leadId,omitempty"`
	ActorID         string             `json:"actorId"`
	AssignedTo      *string            `json:"assignedTo,omitempty"`
	CallDisposition models.Disposition `json:"callDisposition,omitempty"`
	OccurredAt      time.Time          `json:"occurredAt"`
}

// ForLead builds an event snapshotting the lead's assignment and disposition
func ForLead(eventType, actorID string, lead *models.Lead) Event {
	e := Event{
		Type:       eventType,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if lead != nil {
		e.LeadID = lead.ID.Hex()
		e.AssignedTo = lead.AssignedTo
		e.CallDisposition = lead.CallDisposition
	}
	return e
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher
func (r *Recorder) Publish(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Close implements Publisher
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every published event in order
func (r *Recorder) Types() []string {
	var types []string
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}
