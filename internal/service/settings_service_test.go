package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

func TestSettingsService_SaveAndGet(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo(), nil)
	ctx := context.Background()

	settings := &domain.TenantSettings{
		TenantID:       "t1",
		BrandingConfig: map[string]interface{}{"company_name": "Acme Repairs"},
		ChallanConfig:  map[string]interface{}{"footer_note": "See you soon"},
	}
	require.NoError(t, svc.Save(ctx, settings))

	got, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Repairs", got.BrandingConfig["company_name"])
	assert.Equal(t, "See you soon", got.ChallanConfig["footer_note"])
}

func TestSettingsService_GetMissing(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo(), nil)

	_, err := svc.Get(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestSettingsService_Delete(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "t1"), ErrSettingsNotFound)

	require.NoError(t, svc.Save(ctx, &domain.TenantSettings{TenantID: "t1"}))
	require.NoError(t, svc.Delete(ctx, "t1"))

	_, err := svc.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestSettingsService_Design(t *testing.T) {
	repo := newMemSettingsRepo()
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	// No settings stored: empty design, not an error
	design, err := svc.Design(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, design)

	require.NoError(t, svc.Save(ctx, &domain.TenantSettings{
		TenantID:        "t1",
		BrandingConfig:  map[string]interface{}{"company_name": "Acme Repairs"},
		ChallanConfig:   map[string]interface{}{"company_name": "Old Name", "footer_note": "See you soon"},
		TermsConditions: "No refunds after 30 days",
	}))

	design, err = svc.Design(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Repairs", design["company_name"])
	assert.Equal(t, "See you soon", design["footer_note"])
	assert.Equal(t, "No refunds after 30 days", design["terms_conditions"])
}
