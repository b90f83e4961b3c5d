package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

const (
	TopicChallanEvents = "challan.events"

	EventChallanCreated   = "challan.created"
	EventChallanDelivered = "challan.delivered"
)

// ChallanEvent is the lifecycle record other services consume
type ChallanEvent struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	ChallanNo  string    `json:"challan_no"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits challan lifecycle events to Kafka. A nil Publisher is a
// valid no-op so deployments without brokers need no branching at call sites.
type Publisher struct {
	client *kgo.Client
	log    *logger.Logger
}

// NewPublisher connects to the given brokers. Empty brokers return a nil
// Publisher.
func NewPublisher(brokers []string, log *logger.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	if log == nil {
		log = logger.Get()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: client, log: log}, nil
}

// Publish emits one event. Delivery is best effort: a broker outage must not
// fail the request that produced the event.
func (p *Publisher) Publish(ctx context.Context, event ChallanEvent) {
	if p == nil || p.client == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal challan event", zap.Error(err))
		return
	}
	record := &kgo.Record{
		Topic: TopicChallanEvents,
		Key:   []byte(event.ChallanNo),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.log.Warn("publish challan event failed",
				zap.String("type", event.Type),
				zap.String("challan_no", event.ChallanNo),
				zap.Error(err))
		}
	})
}

// Close flushes pending records and releases the client
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
