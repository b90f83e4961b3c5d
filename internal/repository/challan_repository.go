package repository

import (
	"context"
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// ChallanRepository defines the interface for challan data access.
// Lookups return (nil, nil) when no row exists.
type ChallanRepository interface {
	// Create inserts a new challan
	Create(ctx context.Context, challan *domain.Challan) error
	// GetByNo retrieves a challan by tenant and challan number
	GetByNo(ctx context.Context, tenantID, challanNo string) (*domain.Challan, error)
	// List retrieves all challans for a tenant, newest first
	List(ctx context.Context, tenantID string) ([]*domain.Challan, error)
	// Mutate applies fn to the challan row under row-level exclusivity and
	// persists the result. fn returning an error abandons the change and the
	// error is passed through. Returns (nil, nil) when the row does not exist.
	Mutate(ctx context.Context, tenantID, challanNo string, fn func(*domain.Challan) error) (*domain.Challan, error)
	// SetArtifacts records the tracking code and document locations
	SetArtifacts(ctx context.Context, tenantID, challanNo, trackingURL, documentURL string) error
	// SetDocumentURL records the document location alone
	SetDocumentURL(ctx context.Context, tenantID, challanNo, documentURL string) error
	// SetNotificationSent records whether the latest notice reached dispatch
	SetNotificationSent(ctx context.Context, tenantID, challanNo string, sent bool) error
	// Delete removes the challan row. Returns false when nothing was deleted.
	Delete(ctx context.Context, tenantID, challanNo string) (bool, error)
}

// SettingsRepository defines the interface for tenant settings access.
// Get returns (nil, nil) when the tenant has no settings row.
type SettingsRepository interface {
	Get(ctx context.Context, tenantID string) (*domain.TenantSettings, error)
	Upsert(ctx context.Context, settings *domain.TenantSettings) error
	Delete(ctx context.Context, tenantID string) error
}

// OutboxRepository defines the durable notification outbox. Messages are
// enqueued in the same transaction scope as the state change that produced
// them and consumed by the dispatch workers with at-least-once delivery.
type OutboxRepository interface {
	// Enqueue stores a pending message. A pending message with the same
	// (challan_no, kind) is replaced rather than duplicated.
	Enqueue(ctx context.Context, msg *domain.OutboxMessage) error
	// Claim marks up to limit due messages as processing and returns them.
	// Messages stuck in processing longer than visibility are reclaimed.
	Claim(ctx context.Context, limit int, visibility time.Duration) ([]*domain.OutboxMessage, error)
	// MarkSent finalizes a delivered message
	MarkSent(ctx context.Context, id string) error
	// MarkFailed finalizes a message whose delivery attempts were exhausted
	MarkFailed(ctx context.Context, id, lastError string) error
}
