package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "PATHPAL_EVENTS",
			Subjects:  []string{outPrefix + ">"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "PATHPAL_SAMPLES",
			Subjects:  []string{inPrefix + ">"},
			Retention: nats.InterestPolicy,
			MaxAge:    5 * time.Minute,
			Storage:   nats.MemoryStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishNarration(ctx context.Context, n *domain.Narration) error {
	return p.publishJSON(ctx, outSubject(n.SessionID, kindNarration), n)
}

func (p *Publisher) PublishHeadingStatus(ctx context.Context, st *domain.HeadingStatus) error {
	return p.publishJSON(ctx, outSubject(st.SessionID, kindHeading), st)
}

func (p *Publisher) PublishRouteReady(ctx context.Context, ev *domain.RouteReady) error {
	return p.publishJSON(ctx, outSubject(ev.SessionID, kindRoute), ev)
}

// PublishPosition feeds a live position sample, as a device gateway would.
func (p *Publisher) PublishPosition(ctx context.Context, s *domain.PositionSample) error {
	return p.publishJSON(ctx, inSubject(s.SessionID, kindPosition), s)
}

// PublishHeading feeds a live compass sample.
func (p *Publisher) PublishHeading(ctx context.Context, s *domain.HeadingSample) error {
	return p.publishJSON(ctx, inSubject(s.SessionID, kindHeading), s)
}

func (p *Publisher) publishJSON(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("pathpal"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
