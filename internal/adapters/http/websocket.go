package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/pathpal/pathpal/internal/adapters/nats"
	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/usecases"
	"github.com/pathpal/pathpal/internal/pkg/metrics"
)

// wsInbound is a sample sent by the device over the socket.
type wsInbound struct {
	Type    string     `json:"type"` // "position" | "heading"
	Lat     *float64   `json:"lat"`
	Lon     *float64   `json:"lon"`
	Degrees *float64   `json:"degrees"`
	At      *time.Time `json:"timestamp"`
}

// wsOutbound wraps every event pushed to the device.
type wsOutbound struct {
	Type string          `json:"type"` // "narration" | "heading" | "route" | "error"
	Data json.RawMessage `json:"data,omitempty"`
	Err  string          `json:"error,omitempty"`
}

// WebSocketHandler streams one session's events to the device and accepts
// live samples from it. Connect with /ws?session=<id>.
//
// With NATS configured, outbound events come from the session's subjects,
// so a device also sees events produced by samples that arrived through
// the broker or REST. Without it, results are written back directly.
func WebSocketHandler(nav *usecases.NavigationService, nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sessionID := c.Query("session")
		log := slog.Default().With("session_id", sessionID, "remote", c.RemoteAddr().String())

		var mu sync.Mutex
		write := func(m wsOutbound) error {
			data, err := json.Marshal(m)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if _, err := nav.Get(sessionID); err != nil {
			_ = write(wsOutbound{Type: "error", Err: "session not found"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		log.Info("ws client connected")

		if nc != nil {
			sub, err := nc.Subscribe(natsadapter.SessionEvents(sessionID), func(msg *nats.Msg) {
				_ = write(wsOutbound{Type: eventKind(msg.Subject), Data: json.RawMessage(msg.Data)})
			})
			if err != nil {
				log.Error("ws subscribe", "error", err)
				return
			}
			defer func() { _ = sub.Unsubscribe() }()
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		ctx := context.Background()
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var in wsInbound
			if err := json.Unmarshal(raw, &in); err != nil {
				_ = write(wsOutbound{Type: "error", Err: "invalid JSON"})
				continue
			}

			var reply any
			switch in.Type {
			case "position":
				if in.Lat == nil || in.Lon == nil {
					_ = write(wsOutbound{Type: "error", Err: "lat and lon are required"})
					continue
				}
				sample := domain.PositionSample{SessionID: sessionID, Location: domain.GeoPoint{Lat: *in.Lat, Lon: *in.Lon}}
				if in.At != nil {
					sample.Timestamp = *in.At
				}
				out, err := nav.UpdatePosition(ctx, sample)
				if err != nil {
					_ = write(wsOutbound{Type: "error", Err: err.Error()})
					continue
				}
				if nc == nil {
					for _, n := range out {
						writeEvent(write, "narration", n)
					}
				}
			case "heading":
				if in.Degrees == nil {
					_ = write(wsOutbound{Type: "error", Err: "degrees is required"})
					continue
				}
				st, err := nav.UpdateHeading(ctx, domain.HeadingSample{SessionID: sessionID, Degrees: *in.Degrees})
				if err != nil {
					_ = write(wsOutbound{Type: "error", Err: err.Error()})
					continue
				}
				reply = st
			default:
				_ = write(wsOutbound{Type: "error", Err: "unknown type: " + in.Type})
				continue
			}

			if reply != nil && nc == nil {
				writeEvent(write, in.Type, reply)
			}
		}

		log.Info("ws client disconnected")
	}
}

func writeEvent(write func(wsOutbound) error, kind string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = write(wsOutbound{Type: kind, Data: data})
}

// eventKind is the last token of pathpal.out.<session>.<kind>.
func eventKind(subject string) string {
	if i := strings.LastIndexByte(subject, '.'); i >= 0 {
		return subject[i+1:]
	}
	return subject
}
