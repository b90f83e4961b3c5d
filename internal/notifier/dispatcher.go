package notifier

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/storage"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// Dispatcher sends a single notification job with bounded retries. It has no
// persistence side effects; recording the outcome belongs to the caller.
type Dispatcher struct {
	resolver    *Resolver
	transport   Transport
	store       storage.Store
	maxAttempts int
	retryDelay  time.Duration
	log         *logger.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(resolver *Resolver, transport Transport, store storage.Store, maxAttempts int, retryDelay time.Duration, log *logger.Logger) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = logger.Get()
	}
	return &Dispatcher{
		resolver:    resolver,
		transport:   transport,
		store:       store,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		log:         log,
	}
}

// Send resolves the tenant sender, builds the message and attempts delivery
// up to maxAttempts times with a fixed delay between attempts. Only the final
// failure surfaces; intermediate ones are logged and retried.
func (d *Dispatcher) Send(ctx context.Context, msg *domain.OutboxMessage) error {
	if msg.Recipient == "" {
		return fmt.Errorf("challan %s: no recipient", msg.ChallanNo)
	}

	cfg := d.resolver.Resolve(ctx, msg.TenantID)

	subject, body, err := BuildMessage(msg.ChallanNo, msg.Kind, msg.Payload)
	if err != nil {
		return err
	}

	mail := Message{
		Recipient:   msg.Recipient,
		Subject:     subject,
		HTMLBody:    body,
		Attachments: d.resolveAttachments(msg),
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		lastErr = d.transport.Send(cfg, mail)
		if lastErr == nil {
			d.log.Info("notification delivered",
				zap.String("challan_no", msg.ChallanNo),
				zap.String("kind", string(msg.Kind)),
				zap.Int("attempt", attempt))
			return nil
		}
		d.log.Warn("notification attempt failed",
			zap.String("challan_no", msg.ChallanNo),
			zap.String("kind", string(msg.Kind)),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
		if attempt < d.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.retryDelay):
			}
		}
	}
	return fmt.Errorf("challan %s: %s notification failed after %d attempts: %w",
		msg.ChallanNo, msg.Kind, d.maxAttempts, lastErr)
}

// resolveAttachments maps stored artifact locations to filesystem paths at
// send time. Anything that no longer exists on disk is dropped from the
// message rather than failing it.
func (d *Dispatcher) resolveAttachments(msg *domain.OutboxMessage) []Attachment {
	var attachments []Attachment

	if msg.Payload.DocumentPath != "" {
		if path, ok := d.store.Resolve(msg.Payload.DocumentPath); ok {
			attachments = append(attachments, Attachment{Name: msg.ChallanNo + ".pdf", Path: path})
		} else {
			d.log.Warn("document attachment missing, sending without it",
				zap.String("challan_no", msg.ChallanNo),
				zap.String("location", msg.Payload.DocumentPath))
		}
	}

	for _, loc := range msg.Payload.ImagePaths {
		if path, ok := d.store.Resolve(loc); ok {
			attachments = append(attachments, Attachment{Name: filepath.Base(path), Path: path})
		} else {
			d.log.Warn("image attachment missing, sending without it",
				zap.String("challan_no", msg.ChallanNo),
				zap.String("location", loc))
		}
	}
	return attachments
}
