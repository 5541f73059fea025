// Package events defines the outbound change feed. The core publishes events
// after each committed mutation and never depends on delivery succeeding —
// correctness is unchanged when no listener is attached.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Channel is the redis pub/sub channel relayed to websocket consoles.
const Channel = "aquadesk:events"

type Type string

const (
	OrderChanged  Type = "order_changed"
	LedgerChanged Type = "ledger_changed"
	ClosingSaved  Type = "closing_saved"
)

// Event is the wire envelope pushed to subscribers.
type Event struct {
	Type       Type      `json:"type"`
	OrderID    string    `json:"order_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Date       string    `json:"date,omitempty"` // YYYY-MM-DD for closing events
	At         time.Time `json:"at"`
}

// Publisher is the outbound side of the change feed.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// RedisPublisher pushes events into redis pub/sub. Failures are logged and
// dropped — the feed is fire-and-forget.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Msg("events: marshal failed")
		return
	}
	if err := p.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		log.Warn().Err(err).Str("type", string(ev.Type)).Msg("events: publish failed")
	}
}

// Nop discards all events. Used in tests and when redis is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
