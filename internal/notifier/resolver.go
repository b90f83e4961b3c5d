package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
)

// Resolver picks the mail configuration for a tenant. A tenant override is
// used only when every field of it is present, otherwise the shared default
// applies as a whole. Resolution never writes anything back.
type Resolver struct {
	settings   repository.SettingsRepository
	defaultCfg domain.MailConfig
	log        *logger.Logger
}

// NewResolver creates a new Resolver
func NewResolver(settings repository.SettingsRepository, defaultCfg domain.MailConfig, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Get()
	}
	return &Resolver{settings: settings, defaultCfg: defaultCfg, log: log}
}

// Resolve returns the effective mail configuration for the tenant
func (r *Resolver) Resolve(ctx context.Context, tenantID string) domain.MailConfig {
	settings, err := r.settings.Get(ctx, tenantID)
	if err != nil {
		r.log.Warn("tenant settings lookup failed, using default sender",
			zap.String("tenant_id", tenantID), zap.Error(err))
		return r.defaultCfg
	}
	if settings == nil || settings.EmailConfig == nil {
		return r.defaultCfg
	}
	if !settings.EmailConfig.IsComplete() {
		r.log.Warn("tenant mail config incomplete, using default sender",
			zap.String("tenant_id", tenantID))
		return r.defaultCfg
	}
	return *settings.EmailConfig
}
