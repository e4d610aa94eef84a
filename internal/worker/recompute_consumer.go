// Package worker consumes recompute requests from JetStream. It exists for
// self-correction: when an in-request recomputation fails (logged, not
// returned), an operator or a scheduled job can publish a recompute request
// and the worker replays the full derivation from the review set.
package worker

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/movie-catalog/internal/engagement"
)

// RecomputeEvent asks for a full recomputation of one entity's derived state.
// Exactly one of MovieID or UserID is set, matched by subject suffix.
type RecomputeEvent struct {
	MovieID string `json:"movie_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// StartRecomputeConsumer subscribes to engagement.recompute.* and replays
// derived-state recomputation for the named entity.
func StartRecomputeConsumer(ctx context.Context, nc *nats.Conn, svc *engagement.Service, log *zap.Logger) {
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("recompute consumer: jetstream", zap.Error(err))
		return
	}

	sub, err := js.PullSubscribe("engagement.recompute.*", "engagement_recompute")
	if err != nil {
		log.Warn("recompute consumer: subscribe", zap.Error(err))
		return
	}

	go func() {
		batchSize := envInt("WORKER_BATCH_SIZE", 100)
		batchInterval := envInt("WORKER_BATCH_INTERVAL_MS", 2000)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msgs, err := sub.Fetch(batchSize, nats.MaxWait(time.Duration(batchInterval)*time.Millisecond))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				log.Warn("recompute consumer: fetch", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			for _, m := range msgs {
				if err := handle(ctx, m, svc, log); err != nil {
					log.Warn("recompute consumer: handle", zap.String("subject", m.Subject), zap.Error(err))
					if err := m.Nak(); err != nil {
						log.Warn("recompute consumer: nak", zap.Error(err))
					}
					continue
				}
				if err := m.Ack(); err != nil {
					log.Warn("recompute consumer: ack", zap.Error(err))
				}
			}
		}
	}()
}

func handle(ctx context.Context, m *nats.Msg, svc *engagement.Service, log *zap.Logger) error {
	var ev RecomputeEvent
	if err := json.Unmarshal(m.Data, &ev); err != nil {
		return err
	}

	action := strings.TrimPrefix(m.Subject, "engagement.recompute.")
	switch action {
	case "movie":
		if ev.MovieID == "" {
			log.Warn("recompute consumer: movie event without movie_id")
			return nil
		}
		svc.RecomputeMovie(ctx, ev.MovieID)
	case "user":
		if ev.UserID == "" {
			log.Warn("recompute consumer: user event without user_id")
			return nil
		}
		svc.RecomputeUser(ctx, ev.UserID)
	default:
		// unknown action, ack and move on
		log.Warn("recompute consumer: unknown action", zap.String("action", action))
	}
	return nil
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
