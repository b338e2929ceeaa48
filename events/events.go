package events

import (
	"context"
	"errors"
	"time"

	"github.com/Vznu7/one-piece-web-application/models"
)

type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
	OrderPaid    Type = "order.paid"
)

// Event is the message fanned out to back-office listeners.
type Event struct {
	Type  Type         `json:"type"`
	Order models.Order `json:"order"`
	At    time.Time    `json:"at"`
}

func NewEvent(t Type, o models.Order) Event {
	return Event{Type: t, Order: o, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to each publisher in turn and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
