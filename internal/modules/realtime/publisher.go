package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Event names pushed to connected clients.
const (
	EventNewOrder        = "newOrder"
	EventOrderUpdated    = "orderUpdated"
	EventSettingsUpdated = "settingsUpdated"
	EventMenuUpdated     = "menuUpdated"
)

// Publisher pushes a named event to subscribers. Delivery is at-most-once;
// callers treat a returned error as informational only.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Frame is the wire shape of one published event.
type Frame struct {
	Event       string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

func newFrame(event string, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: event, Payload: raw, PublishedAt: time.Now().UTC()}, nil
}

// Fanout publishes every event to each of its publishers.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event string, payload any) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
