package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// PostgresSettingsRepository implements SettingsRepository using PostgreSQL
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository
func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// Get retrieves a tenant's settings
func (r *PostgresSettingsRepository) Get(ctx context.Context, tenantID string) (*domain.TenantSettings, error) {
	query := `
		SELECT tenant_id, COALESCE(branding_config, '{}'::jsonb), COALESCE(challan_config, '{}'::jsonb),
		       COALESCE(terms_conditions, ''), email_config, updated_at
		FROM tenant_settings
		WHERE tenant_id = $1
	`
	settings := &domain.TenantSettings{}
	var branding, challan []byte
	var emailConfig []byte
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&settings.TenantID,
		&branding,
		&challan,
		&settings.TermsConditions,
		&emailConfig,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// Malformed blobs degrade to empty config rather than failing the read
	if err := json.Unmarshal(branding, &settings.BrandingConfig); err != nil {
		settings.BrandingConfig = map[string]interface{}{}
	}
	if err := json.Unmarshal(challan, &settings.ChallanConfig); err != nil {
		settings.ChallanConfig = map[string]interface{}{}
	}
	if len(emailConfig) > 0 {
		mc := &domain.MailConfig{}
		if err := json.Unmarshal(emailConfig, mc); err == nil {
			settings.EmailConfig = mc
		}
	}
	return settings, nil
}

// Upsert stores a tenant's settings, replacing any prior row
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *domain.TenantSettings) error {
	branding, err := json.Marshal(settings.BrandingConfig)
	if err != nil {
		return err
	}
	challan, err := json.Marshal(settings.ChallanConfig)
	if err != nil {
		return err
	}
	var emailConfig interface{}
	if settings.EmailConfig != nil {
		raw, err := json.Marshal(settings.EmailConfig)
		if err != nil {
			return err
		}
		emailConfig = raw
	}

	query := `
		INSERT INTO tenant_settings (tenant_id, branding_config, challan_config, terms_conditions, email_config, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (tenant_id)
		DO UPDATE SET
			branding_config = EXCLUDED.branding_config,
			challan_config = EXCLUDED.challan_config,
			terms_conditions = EXCLUDED.terms_conditions,
			email_config = EXCLUDED.email_config,
			updated_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, settings.TenantID, branding, challan,
		nullStringOrValue(settings.TermsConditions), emailConfig)
	return err
}

// Delete clears a tenant's settings
func (r *PostgresSettingsRepository) Delete(ctx context.Context, tenantID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tenant_settings WHERE tenant_id = $1`, tenantID)
	return err
}
