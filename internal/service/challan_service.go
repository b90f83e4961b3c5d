package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/events"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/render"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/storage"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/tracking"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// Warning codes for non-fatal artifact and notification failures on create
// and update
const (
	WarningTrackingCode = "tracking_code"
	WarningDocument     = "document"
	WarningNotification = "notification"
)

// UpdateInput carries the mutable challan fields. Nil pointers and nil
// slices mean "leave unchanged".
type UpdateInput struct {
	CustomerName    *string
	Email           *string
	ContactNumber   *string
	SerialNumber    *string
	City            *string
	Problem         *string
	Accessories     []string
	Warranty        *string
	DispatchThrough *string
	Items           []domain.Item
	Images          []string
}

// ChallanService implements the challan lifecycle: creation with artifact
// generation, pending-only updates, the OTP pickup flow and deletion.
type ChallanService struct {
	repo     repository.ChallanRepository
	settings repository.SettingsRepository
	outbox   repository.OutboxRepository
	otp      *OTPService
	tracking *tracking.Builder
	renderer *render.Renderer
	store    storage.Store
	events   *events.Publisher
	log      *logger.Logger
}

// NewChallanService creates a new ChallanService
func NewChallanService(
	repo repository.ChallanRepository,
	settings repository.SettingsRepository,
	outbox repository.OutboxRepository,
	otp *OTPService,
	trackingBuilder *tracking.Builder,
	renderer *render.Renderer,
	store storage.Store,
	publisher *events.Publisher,
	log *logger.Logger,
) *ChallanService {
	if log == nil {
		log = logger.Get()
	}
	return &ChallanService{
		repo:     repo,
		settings: settings,
		outbox:   outbox,
		otp:      otp,
		tracking: trackingBuilder,
		renderer: renderer,
		store:    store,
		events:   publisher,
		log:      log,
	}
}

// Create persists a new pending challan, then generates its tracking code
// and document. Artifact failures degrade to warnings; the challan itself is
// already committed by then. When the customer has an email and a document
// exists, a creation notice is queued for dispatch.
func (s *ChallanService) Create(ctx context.Context, challan *domain.Challan) (*domain.Challan, []string, error) {
	if challan.ChallanNo == "" {
		challan.ChallanNo = newChallanNo()
	}
	challan.Status = domain.StatusPending
	challan.NotificationSent = false
	now := time.Now()
	challan.CreatedAt = now
	challan.UpdatedAt = now

	if err := s.repo.Create(ctx, challan); err != nil {
		return nil, nil, fmt.Errorf("create challan: %w", err)
	}

	var warnings []string

	trackingURL, err := s.tracking.Generate(tracking.SnapshotOf(challan))
	if err != nil {
		s.log.Warn("tracking code generation failed",
			zap.String("challan_no", challan.ChallanNo), zap.Error(err))
		warnings = append(warnings, WarningTrackingCode)
	}
	challan.TrackingCodeURL = trackingURL

	documentURL, err := s.renderDocument(ctx, challan)
	if err != nil {
		s.log.Warn("document rendering failed",
			zap.String("challan_no", challan.ChallanNo), zap.Error(err))
		warnings = append(warnings, WarningDocument)
	}
	challan.DocumentURL = documentURL

	if trackingURL != "" || documentURL != "" {
		if err := s.repo.SetArtifacts(ctx, challan.TenantID, challan.ChallanNo, trackingURL, documentURL); err != nil {
			return nil, nil, fmt.Errorf("record artifacts: %w", err)
		}
	}

	if challan.HasRecipient() && documentURL != "" {
		if err := s.enqueueCreationNotice(ctx, challan); err != nil {
			s.log.Warn("enqueue creation notice failed",
				zap.String("challan_no", challan.ChallanNo), zap.Error(err))
			warnings = append(warnings, WarningNotification)
		}
	}

	s.events.Publish(ctx, events.ChallanEvent{
		Type:      events.EventChallanCreated,
		TenantID:  challan.TenantID,
		ChallanNo: challan.ChallanNo,
		Status:    challan.Status,
	})

	s.log.Info("challan created",
		zap.String("tenant_id", challan.TenantID),
		zap.String("challan_no", challan.ChallanNo),
		zap.Strings("warnings", warnings))
	return challan, warnings, nil
}

// Get returns one challan
func (s *ChallanService) Get(ctx context.Context, tenantID, challanNo string) (*domain.Challan, error) {
	challan, err := s.repo.GetByNo(ctx, tenantID, challanNo)
	if err != nil {
		return nil, err
	}
	if challan == nil {
		return nil, ErrChallanNotFound
	}
	return challan, nil
}

// List returns all of a tenant's challans, newest first
func (s *ChallanService) List(ctx context.Context, tenantID string) ([]*domain.Challan, error) {
	return s.repo.List(ctx, tenantID)
}

// Update applies the given changes to a pending challan and re-renders its
// document. The tracking code is never regenerated: printed labels must keep
// matching. Any prior notification state is reset so the updated document is
// sent out again.
func (s *ChallanService) Update(ctx context.Context, tenantID, challanNo string, input UpdateInput) (*domain.Challan, []string, error) {
	challan, err := s.repo.Mutate(ctx, tenantID, challanNo, func(c *domain.Challan) error {
		if c.IsDelivered() {
			return ErrInvalidState
		}
		applyUpdate(c, input)
		c.NotificationSent = false
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if challan == nil {
		return nil, nil, ErrChallanNotFound
	}

	var warnings []string
	oldDocument := challan.DocumentURL

	documentURL, err := s.renderDocument(ctx, challan)
	if err != nil {
		s.log.Warn("document rendering failed",
			zap.String("challan_no", challanNo), zap.Error(err))
		warnings = append(warnings, WarningDocument)
	} else {
		if oldDocument != "" && oldDocument != documentURL {
			if err := s.store.Remove(oldDocument); err != nil {
				s.log.Warn("remove stale document failed",
					zap.String("location", oldDocument), zap.Error(err))
			}
		}
		challan.DocumentURL = documentURL
		if err := s.repo.SetDocumentURL(ctx, tenantID, challanNo, documentURL); err != nil {
			return nil, nil, fmt.Errorf("record document: %w", err)
		}
	}

	if challan.HasRecipient() && challan.DocumentURL != "" {
		if err := s.enqueueCreationNotice(ctx, challan); err != nil {
			s.log.Warn("enqueue creation notice failed",
				zap.String("challan_no", challanNo), zap.Error(err))
			warnings = append(warnings, WarningNotification)
		}
	}

	s.log.Info("challan updated",
		zap.String("tenant_id", tenantID),
		zap.String("challan_no", challanNo),
		zap.Strings("warnings", warnings))
	return challan, warnings, nil
}

// RequestPickup issues a pickup code for the challan and queues the OTP
// notice to the customer
func (s *ChallanService) RequestPickup(ctx context.Context, tenantID, challanNo string, ttl time.Duration) error {
	challan, effectiveTTL, err := s.otp.Issue(ctx, tenantID, challanNo, ttl)
	if err != nil {
		return err
	}

	msg := &domain.OutboxMessage{
		TenantID:  tenantID,
		ChallanNo: challanNo,
		Kind:      domain.KindOTP,
		Recipient: challan.Email,
		Payload: domain.NotificationPayload{
			CustomerName: challan.CustomerName,
			OTPCode:      *challan.OTPCode,
			TTLMinutes:   int(effectiveTTL.Minutes()),
		},
	}
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue otp notice: %w", err)
	}
	return nil
}

// ConfirmPickup verifies the submitted code and, inside the same locked
// mutation, transitions the challan to delivered. This is the only way a
// challan ever leaves pending. Delivery clears the stored code, so a repeat
// confirmation reports ErrNoOtpIssued like any other challan without a code
// on record.
func (s *ChallanService) ConfirmPickup(ctx context.Context, tenantID, challanNo, submitted, actor string) (*domain.Challan, error) {
	now := time.Now()
	challan, err := s.otp.Verify(ctx, tenantID, challanNo, submitted, func(c *domain.Challan) {
		c.Status = domain.StatusDelivered
		c.DeliveredAt = &now
		if actor != "" {
			c.DeliveredBy = &actor
		}
	})
	if err != nil {
		return nil, err
	}

	// Re-render so the stored document carries the delivered watermark
	if documentURL, rerr := s.renderDocument(ctx, challan); rerr != nil {
		s.log.Warn("document re-render failed after delivery",
			zap.String("challan_no", challanNo), zap.Error(rerr))
	} else {
		challan.DocumentURL = documentURL
		if err := s.repo.SetDocumentURL(ctx, tenantID, challanNo, documentURL); err != nil {
			s.log.Warn("record delivered document failed",
				zap.String("challan_no", challanNo), zap.Error(err))
		}
	}

	if challan.HasRecipient() {
		msg := &domain.OutboxMessage{
			TenantID:  tenantID,
			ChallanNo: challanNo,
			Kind:      domain.KindDeliveryConfirmation,
			Recipient: challan.Email,
			Payload: domain.NotificationPayload{
				CustomerName: challan.CustomerName,
				DeliveredAt:  challan.DeliveredAt,
				DeliveredBy:  actor,
				DocumentPath: challan.DocumentURL,
			},
		}
		if err := s.outbox.Enqueue(ctx, msg); err != nil {
			s.log.Warn("enqueue delivery confirmation failed",
				zap.String("challan_no", challanNo), zap.Error(err))
		}
	}

	s.events.Publish(ctx, events.ChallanEvent{
		Type:      events.EventChallanDelivered,
		TenantID:  tenantID,
		ChallanNo: challanNo,
		Status:    challan.Status,
	})

	s.log.Info("challan delivered",
		zap.String("tenant_id", tenantID),
		zap.String("challan_no", challanNo),
		zap.String("delivered_by", actor))
	return challan, nil
}

// Delete removes the challan and its stored artifacts. Artifact removal is
// best effort; the row is authoritative.
func (s *ChallanService) Delete(ctx context.Context, tenantID, challanNo string) error {
	challan, err := s.repo.GetByNo(ctx, tenantID, challanNo)
	if err != nil {
		return err
	}
	if challan == nil {
		return ErrChallanNotFound
	}

	deleted, err := s.repo.Delete(ctx, tenantID, challanNo)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrChallanNotFound
	}

	for _, location := range append([]string{challan.TrackingCodeURL, challan.DocumentURL}, challan.Images...) {
		if location == "" {
			continue
		}
		if err := s.store.Remove(location); err != nil {
			s.log.Warn("remove artifact failed", zap.String("location", location), zap.Error(err))
		}
	}

	s.log.Info("challan deleted",
		zap.String("tenant_id", tenantID),
		zap.String("challan_no", challanNo))
	return nil
}

// MarkNotificationSent records the outcome of a creation notice dispatch
func (s *ChallanService) MarkNotificationSent(ctx context.Context, tenantID, challanNo string, sent bool) error {
	return s.repo.SetNotificationSent(ctx, tenantID, challanNo, sent)
}

func (s *ChallanService) enqueueCreationNotice(ctx context.Context, challan *domain.Challan) error {
	msg := &domain.OutboxMessage{
		TenantID:  challan.TenantID,
		ChallanNo: challan.ChallanNo,
		Kind:      domain.KindCreation,
		Recipient: challan.Email,
		Payload: domain.NotificationPayload{
			CustomerName: challan.CustomerName,
			SerialNumber: challan.SerialNumber,
			Problem:      challan.Problem,
			Accessories:  challan.Accessories,
			DocumentPath: challan.DocumentURL,
			ImagePaths:   challan.Images,
		},
	}
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue creation notice: %w", err)
	}
	return nil
}

// renderDocument loads the tenant design and renders the challan document
func (s *ChallanService) renderDocument(ctx context.Context, challan *domain.Challan) (string, error) {
	design := map[string]interface{}{}
	settings, err := s.settings.Get(ctx, challan.TenantID)
	if err != nil {
		s.log.Warn("tenant settings lookup failed, rendering with defaults",
			zap.String("tenant_id", challan.TenantID), zap.Error(err))
	} else if settings != nil {
		design = domain.MergeDesign(settings.BrandingConfig, settings.ChallanConfig, settings.TermsConditions)
	}

	data := render.Data{
		ChallanNo:       challan.ChallanNo,
		CustomerName:    challan.CustomerName,
		Email:           challan.Email,
		ContactNumber:   challan.ContactNumber,
		City:            challan.City,
		SerialNumber:    challan.SerialNumber,
		Problem:         challan.Problem,
		Accessories:     challan.Accessories,
		Warranty:        challan.Warranty,
		DispatchThrough: challan.DispatchThrough,
		EmployeeName:    challan.EmployeeID,
		Items:           challan.Items,
		Status:          challan.Status,
		GeneratedOn:     time.Now(),
	}
	return s.renderer.Render(ctx, data, design)
}

func applyUpdate(c *domain.Challan, input UpdateInput) {
	if input.CustomerName != nil {
		c.CustomerName = *input.CustomerName
	}
	if input.Email != nil {
		c.Email = *input.Email
	}
	if input.ContactNumber != nil {
		c.ContactNumber = *input.ContactNumber
	}
	if input.SerialNumber != nil {
		c.SerialNumber = *input.SerialNumber
	}
	if input.City != nil {
		c.City = *input.City
	}
	if input.Problem != nil {
		c.Problem = *input.Problem
	}
	if input.Accessories != nil {
		c.Accessories = input.Accessories
	}
	if input.Warranty != nil {
		c.Warranty = *input.Warranty
	}
	if input.DispatchThrough != nil {
		c.DispatchThrough = *input.DispatchThrough
	}
	if input.Items != nil {
		c.Items = input.Items
	}
	if input.Images != nil {
		c.Images = input.Images
	}
}

// newChallanNo builds a time-based challan number with a short random suffix
// so two tickets opened in the same second stay distinct
func newChallanNo() string {
	var suffix [2]byte
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("CH-%s%s", time.Now().Format("02012006150405"), hex.EncodeToString(suffix[:]))
}
