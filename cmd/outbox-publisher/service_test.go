package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/oceanharvest/fishmarket-backend/pkg/config"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	"github.com/oceanharvest/fishmarket-backend/pkg/logger"
)

type fakeRepo struct {
	pending   []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

type fakeResult struct {
	err error
}

func (r *fakeResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "server-id", nil
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return &fakeResult{err: p.err}
}

func testEvent(t *testing.T, eventType enums.OutboxEventType, aggregateID string) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"order_id": aggregateID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   aggregateID,
		Payload:       payload,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.PubSub.DomainTopic = "fm-domain-events"

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "outbox-test"}),
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

func TestProcessBatchPublishesPendingEvents(t *testing.T) {
	repo := &fakeRepo{pending: []models.OutboxEvent{
		testEvent(t, enums.EventOrderCreated, "ORD001"),
		testEvent(t, enums.EventOrderStatusChanged, "ORD001"),
	}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to be processed")
	}
	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(pub.messages))
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected 2 events marked published, got %d", len(repo.published))
	}
	if got := pub.messages[0].Attributes["aggregate_id"]; got != "ORD001" {
		t.Fatalf("expected aggregate attribute ORD001 got %q", got)
	}
}

func TestProcessBatchMarksFailuresWithoutStopping(t *testing.T) {
	repo := &fakeRepo{pending: []models.OutboxEvent{
		testEvent(t, enums.EventOrderCreated, "ORD001"),
		testEvent(t, enums.EventReviewCreated, "7"),
	}}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to be processed")
	}
	if len(repo.failed) != 2 {
		t.Fatalf("expected both events marked failed, got %d", len(repo.failed))
	}
	if len(repo.published) != 0 {
		t.Fatalf("no events should be marked published, got %d", len(repo.published))
	}
}

func TestProcessBatchNoPendingEvents(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed {
		t.Fatalf("empty outbox should not count as processed")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled got %v", err)
	}
}
