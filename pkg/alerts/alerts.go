package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/fabric"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/metrics"
	"github.com/droverhq/drover/pkg/types"
)

// Publisher is the slice of the message fabric the bus needs
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}, props *fabric.Props) error
}

// Bus is the outbound alert boundary. Producers call PublishAlert; the
// bus routes onto alert.{severity}.{category} for downstream
// notification handlers (email, webhook, chat) to consume.
//
// Identical alerts are suppressed within the configured window, keyed
// by (category, title, servers, service). A recovery alert bypasses
// suppression and clears the key so the next occurrence fires again.
type Bus struct {
	publisher Publisher
	window    time.Duration
	logger    zerolog.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// New creates an alert bus with the given suppression window
func New(publisher Publisher, window time.Duration) *Bus {
	return &Bus{
		publisher: publisher,
		window:    window,
		logger:    log.WithComponent("alerts"),
		lastSent:  make(map[string]time.Time),
	}
}

// PublishAlert emits one alert, applying suppression. Returns true when
// the alert was actually published.
func (b *Bus) PublishAlert(ctx context.Context, alert *types.Alert) (bool, error) {
	if alert.Severity == "" {
		alert.Severity = types.AlertInfo
	}
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	key := suppressionKey(alert)
	now := time.Now()

	b.mu.Lock()
	if alert.Recovery {
		delete(b.lastSent, key)
	} else {
		if sent, ok := b.lastSent[key]; ok && now.Sub(sent) < b.window {
			b.mu.Unlock()
			metrics.AlertsSuppressed.Inc()
			b.logger.Debug().Str("title", alert.Title).Msg("Alert suppressed")
			return false, nil
		}
		b.lastSent[key] = now
		b.prune(now)
	}
	b.mu.Unlock()

	routingKey := fabric.AlertKey(string(alert.Severity), string(alert.Category))
	if err := b.publisher.Publish(ctx, routingKey, alert, &fabric.Props{CorrelationID: alert.ID}); err != nil {
		return false, fmt.Errorf("failed to publish alert %q: %w", alert.Title, err)
	}

	metrics.AlertsEmitted.WithLabelValues(string(alert.Severity)).Inc()
	b.logger.Info().
		Str("severity", string(alert.Severity)).
		Str("category", string(alert.Category)).
		Str("title", alert.Title).
		Bool("recovery", alert.Recovery).
		Msg("Alert published")
	return true, nil
}

// Watch consumes fleet events and converts them to alerts until ctx is
// done. Deployment alerts are published by the workflow engine
// directly; this path covers fleet liveness.
func (b *Bus) Watch(ctx context.Context, broker *events.Broker) {
	sub := broker.SubscribeTypes(
		events.EventAgentConnected,
		events.EventAgentDisconnected,
	)
	defer broker.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			b.handleFleetEvent(ctx, ev)
		}
	}
}

func (b *Bus) handleFleetEvent(ctx context.Context, ev *events.Event) {
	switch ev.Type {
	case events.EventAgentDisconnected:
		_, err := b.PublishAlert(ctx, &types.Alert{
			Severity: types.AlertWarning,
			Category: types.AlertCategoryFleet,
			Title:    "agent disconnected",
			Message:  fmt.Sprintf("agent %s missed its heartbeat window", ev.AgentID),
			Servers:  []string{ev.AgentID},
		})
		if err != nil {
			b.logger.Warn().Err(err).Msg("Failed to publish disconnect alert")
		}
	case events.EventAgentConnected:
		_, err := b.PublishAlert(ctx, &types.Alert{
			Severity: types.AlertInfo,
			Category: types.AlertCategoryFleet,
			Title:    "agent disconnected",
			Message:  fmt.Sprintf("agent %s is reporting again", ev.AgentID),
			Servers:  []string{ev.AgentID},
			Recovery: true,
		})
		if err != nil {
			b.logger.Warn().Err(err).Msg("Failed to publish recovery alert")
		}
	}
}

// prune drops suppression entries older than the window. Called with
// the lock held.
func (b *Bus) prune(now time.Time) {
	if len(b.lastSent) < 1024 {
		return
	}
	for key, sent := range b.lastSent {
		if now.Sub(sent) >= b.window {
			delete(b.lastSent, key)
		}
	}
}

func suppressionKey(alert *types.Alert) string {
	return strings.Join([]string{
		string(alert.Category),
		alert.Title,
		strings.Join(alert.Servers, ","),
		alert.Service,
	}, "|")
}
