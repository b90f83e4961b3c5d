package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// SettingsService manages tenant configuration: branding, challan layout,
// terms and the optional mail sender
type SettingsService struct {
	repo repository.SettingsRepository
	log  *logger.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo repository.SettingsRepository, log *logger.Logger) *SettingsService {
	if log == nil {
		log = logger.Get()
	}
	return &SettingsService{repo: repo, log: log}
}

// Get returns the tenant's stored settings
func (s *SettingsService) Get(ctx context.Context, tenantID string) (*domain.TenantSettings, error) {
	settings, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsNotFound
	}
	return settings, nil
}

// Save stores the tenant's settings, creating or replacing them
func (s *SettingsService) Save(ctx context.Context, settings *domain.TenantSettings) error {
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return err
	}
	s.log.Info("tenant settings saved", zap.String("tenant_id", settings.TenantID))
	return nil
}

// Delete removes the tenant's settings
func (s *SettingsService) Delete(ctx context.Context, tenantID string) error {
	existing, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSettingsNotFound
	}
	if err := s.repo.Delete(ctx, tenantID); err != nil {
		return err
	}
	s.log.Info("tenant settings deleted", zap.String("tenant_id", tenantID))
	return nil
}

// Design returns the merged document design for the tenant. A tenant without
// settings gets an empty design so rendering falls back to defaults.
func (s *SettingsService) Design(ctx context.Context, tenantID string) (map[string]interface{}, error) {
	settings, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return map[string]interface{}{}, nil
	}
	return domain.MergeDesign(settings.BrandingConfig, settings.ChallanConfig, settings.TermsConditions), nil
}
