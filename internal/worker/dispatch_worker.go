package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/notifier"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// NotificationRecorder records the outcome of a creation notice on the
// challan row
type NotificationRecorder interface {
	MarkNotificationSent(ctx context.Context, tenantID, challanNo string, sent bool) error
}

// Config controls the dispatch worker pool
type Config struct {
	Workers           int
	PollInterval      time.Duration
	BatchSize         int
	VisibilityTimeout time.Duration
}

// DefaultConfig returns the default dispatch worker configuration
func DefaultConfig() Config {
	return Config{
		Workers:           4,
		PollInterval:      2 * time.Second,
		BatchSize:         20,
		VisibilityTimeout: 5 * time.Minute,
	}
}

// Stats counts dispatch outcomes since start
type Stats struct {
	Claimed int64
	Sent    int64
	Failed  int64
}

// DispatchWorker drains the notification outbox with a bounded pool.
// Delivery is at least once: a message claimed by a worker that dies comes
// back after the visibility timeout.
type DispatchWorker struct {
	outbox     repository.OutboxRepository
	dispatcher *notifier.Dispatcher
	recorder   NotificationRecorder
	cfg        Config
	log        *logger.Logger

	claimed int64
	sent    int64
	failed  int64

	stopOnce sync.Once
	stopCh   chan struct{}
	doneWg   sync.WaitGroup
}

// NewDispatchWorker creates a new DispatchWorker
func NewDispatchWorker(outbox repository.OutboxRepository, dispatcher *notifier.Dispatcher, recorder NotificationRecorder, cfg Config, log *logger.Logger) *DispatchWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.VisibilityTimeout <= 0 {
		cfg.VisibilityTimeout = DefaultConfig().VisibilityTimeout
	}
	if log == nil {
		log = logger.Get()
	}
	return &DispatchWorker{
		outbox:     outbox,
		dispatcher: dispatcher,
		recorder:   recorder,
		cfg:        cfg,
		log:        log,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the poll loop and the worker pool. It returns immediately;
// call Stop to drain and shut down.
func (w *DispatchWorker) Start(ctx context.Context) {
	jobs := make(chan *domain.OutboxMessage)

	for i := 0; i < w.cfg.Workers; i++ {
		w.doneWg.Add(1)
		go func() {
			defer w.doneWg.Done()
			for msg := range jobs {
				w.process(ctx, msg)
			}
		}()
	}

	w.doneWg.Add(1)
	go func() {
		defer w.doneWg.Done()
		defer close(jobs)

		ticker := time.NewTicker(w.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-ticker.C:
				w.poll(ctx, jobs)
			}
		}
	}()

	w.log.Info("dispatch worker started",
		zap.Int("workers", w.cfg.Workers),
		zap.Duration("poll_interval", w.cfg.PollInterval))
}

// Stop halts polling and waits for in-flight jobs to finish
func (w *DispatchWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.doneWg.Wait()
	w.log.Info("dispatch worker stopped",
		zap.Int64("sent", atomic.LoadInt64(&w.sent)),
		zap.Int64("failed", atomic.LoadInt64(&w.failed)))
}

// Snapshot returns the current dispatch counters
func (w *DispatchWorker) Snapshot() Stats {
	return Stats{
		Claimed: atomic.LoadInt64(&w.claimed),
		Sent:    atomic.LoadInt64(&w.sent),
		Failed:  atomic.LoadInt64(&w.failed),
	}
}

func (w *DispatchWorker) poll(ctx context.Context, jobs chan<- *domain.OutboxMessage) {
	messages, err := w.outbox.Claim(ctx, w.cfg.BatchSize, w.cfg.VisibilityTimeout)
	if err != nil {
		w.log.Error("claim outbox messages failed", zap.Error(err))
		return
	}
	for _, msg := range messages {
		atomic.AddInt64(&w.claimed, 1)
		select {
		case jobs <- msg:
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

func (w *DispatchWorker) process(ctx context.Context, msg *domain.OutboxMessage) {
	err := w.dispatcher.Send(ctx, msg)
	if err != nil {
		// Shutdown mid-send is not exhaustion; the claim expires and the
		// message is picked up again
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			w.log.Info("dispatch interrupted, leaving message for reclaim",
				zap.String("id", msg.ID), zap.String("challan_no", msg.ChallanNo))
			return
		}
		atomic.AddInt64(&w.failed, 1)
		if merr := w.outbox.MarkFailed(ctx, msg.ID, err.Error()); merr != nil {
			w.log.Error("mark outbox message failed errored",
				zap.String("id", msg.ID), zap.Error(merr))
		}
		w.recordCreationOutcome(ctx, msg, false)
		return
	}

	atomic.AddInt64(&w.sent, 1)
	if merr := w.outbox.MarkSent(ctx, msg.ID); merr != nil {
		w.log.Error("mark outbox message sent errored",
			zap.String("id", msg.ID), zap.Error(merr))
	}
	w.recordCreationOutcome(ctx, msg, true)
}

// recordCreationOutcome mirrors creation notice outcomes onto the challan
// row so clients can see whether the customer was told
func (w *DispatchWorker) recordCreationOutcome(ctx context.Context, msg *domain.OutboxMessage, sent bool) {
	if msg.Kind != domain.KindCreation || w.recorder == nil {
		return
	}
	if err := w.recorder.MarkNotificationSent(ctx, msg.TenantID, msg.ChallanNo, sent); err != nil {
		w.log.Warn("record notification outcome failed",
			zap.String("challan_no", msg.ChallanNo), zap.Error(err))
	}
}
