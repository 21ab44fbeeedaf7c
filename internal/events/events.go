// Package events publishes card change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/card-builder/internal/config"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types
const (
	CardSaved   = "card.saved"
	CardRemoved = "card.removed"
)

// CardEvent is the payload published when the card collection changes
type CardEvent struct {
	Type         string    `json:"type"`
	EmployeeCode string    `json:"employee_code"`
	LastUpdated  string    `json:"last_updated,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher delivers card events
type Publisher interface {
	Publish(ctx context.Context, ev CardEvent) error
	Close() error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, CardEvent) error { return nil }
func (Nop) Close() error                             { return nil }

// NATSPublisher publishes events on "<subject>.<type>"
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// ConnectNATS dials the NATS server. token may be empty.
func ConnectNATS(url, token, subject string) (*NATSPublisher, error) {
	opts := []nats.Option{nats.Name("card-builder")}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(eventType string) string {
	return p.subject + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, ev CardEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(ev.Type), data)
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Open returns a NATS publisher when cfg names a server, and Nop otherwise
func Open(cfg config.EventsConfig, log zerolog.Logger) (Publisher, error) {
	if cfg.NATSURL == "" {
		return Nop{}, nil
	}
	p, err := ConnectNATS(cfg.NATSURL, cfg.NATSToken, cfg.Subject)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.NATSURL).Str("subject", cfg.Subject).Msg("Publishing card events to NATS")
	return p, nil
}
