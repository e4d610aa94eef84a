// Package analytics provides a fire-and-forget NATS publisher for
// engagement events. Publish failures never surface to the caller; derived
// state is recomputed from the reviews collection, so a lost event costs
// nothing but a delayed analytics datapoint.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for every engagement event type.
const (
	SubjectRatingSubmitted = "engagement.rating.submitted"
	SubjectRatingDeleted   = "engagement.rating.deleted"
	SubjectReviewLiked     = "engagement.review.liked"
	SubjectReviewUnliked   = "engagement.review.unliked"
	SubjectCommentAdded    = "engagement.comment.added"
	SubjectCommentRemoved  = "engagement.comment.removed"
)

// Event is the canonical envelope sent to all engagement.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes engagement events to NATS JetStream.
// A nil pointer is a safe no-op stub.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

// New creates a Publisher using an existing JetStream context.
// Pass js=nil to get a no-op stub (useful in tests and when NATS is down).
func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	return &Publisher{js: js, log: log}
}

// Publish sends an event asynchronously. Failures are logged as warnings.
func (p *Publisher) Publish(subject, eventName, userID string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("analytics: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("analytics: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
