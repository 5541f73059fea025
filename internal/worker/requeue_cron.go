package worker

// requeue_cron.go
// Background goroutine that periodically drains the report DLQ and re-enqueues
// entries that have attempts left. Entries past maxAttempts are parked back at
// the tail for manual inspection. Respects the mailer circuit breaker so a
// downed SMTP server is not hammered every tick.

import (
	"context"
	"encoding/json"
	"time"

	"aquadesk/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	requeueTickInterval = 60 * time.Second
	requeueBatchSize    = 10
)

// StartRequeueCron launches the DLQ drain loop. It stops with the context.
func StartRequeueCron(ctx context.Context, rdb *redis.Client, d *Dispatcher, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(requeueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("requeue_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("requeue_cron: shutting down")
				return
			case <-ticker.C:
				drainDLQ(ctx, rdb, d, cb)
			}
		}
	}()
}

func drainDLQ(ctx context.Context, rdb *redis.Client, d *Dispatcher, cb *infra.CircuitBreaker) {
	// Most report failures are SMTP failures; while the breaker is open a
	// retry would fail immediately, so skip the whole tick.
	if cb != nil && cb.State() == infra.CBOpen {
		log.Debug().Msg("requeue_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueClosingReport
	for i := 0; i < requeueBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("requeue_cron: corrupt DLQ entry dropped")
			continue
		}

		if entry.Attempts >= maxAttempts {
			// Out of retries — park it back for manual inspection.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			log.Warn().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("requeue_cron: entry exhausted retries, left in DLQ")
			return
		}

		if err := d.enqueue(ctx, entry.OriginalQueue, entry.JobType, json.RawMessage(entry.Payload), entry.Attempts); err != nil {
			log.Error().Err(err).Msg("requeue_cron: re-enqueue failed")
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return
		}
		log.Info().
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("requeue_cron: entry re-enqueued")
	}
}
