package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
//
// Every API instance gets its own ephemeral consumer so each one sees all
// samples and keeps those for the sessions it holds.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribePositions(ctx context.Context, handler func(ctx context.Context, p *domain.PositionSample) error) error {
	return s.subscribe(inPrefix+"*."+kindPosition, func(msg *nats.Msg) error {
		var p domain.PositionSample
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		if p.SessionID == "" {
			p.SessionID = sessionFromSubject(msg.Subject)
		}
		return handler(ctx, &p)
	})
}

func (s *Subscriber) SubscribeHeadings(ctx context.Context, handler func(ctx context.Context, h *domain.HeadingSample) error) error {
	return s.subscribe(inPrefix+"*."+kindHeading, func(msg *nats.Msg) error {
		var h domain.HeadingSample
		if err := json.Unmarshal(msg.Data, &h); err != nil {
			return err
		}
		if h.SessionID == "" {
			h.SessionID = sessionFromSubject(msg.Subject)
		}
		return handler(ctx, &h)
	})
}

func (s *Subscriber) subscribe(subject string, handle func(msg *nats.Msg) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handle(msg); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}

// pathpal.in.<session>.<kind>
func sessionFromSubject(subject string) string {
	rest := subject[len(inPrefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '.' {
			return rest[:i]
		}
	}
	return rest
}
