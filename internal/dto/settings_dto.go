package dto

import (
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// MailConfigRequest is a tenant's own SMTP sender. All fields must be given
// for the override to take effect.
type MailConfigRequest struct {
	SenderName     string `json:"sender_name"`
	SenderEmail    string `json:"sender_email" binding:"omitempty,email"`
	SenderPassword string `json:"sender_password"`
	Server         string `json:"mail_server"`
	Port           int    `json:"mail_port"`
	UseTLS         bool   `json:"use_tls"`
}

// SettingsRequest is the payload for storing tenant settings
type SettingsRequest struct {
	BrandingConfig  map[string]interface{} `json:"branding_config"`
	ChallanConfig   map[string]interface{} `json:"challan_config"`
	TermsConditions string                 `json:"terms_conditions"`
	EmailConfig     *MailConfigRequest     `json:"email_config"`
}

// ToDomain builds the settings this request describes
func (r *SettingsRequest) ToDomain(tenantID string) *domain.TenantSettings {
	settings := &domain.TenantSettings{
		TenantID:        tenantID,
		BrandingConfig:  r.BrandingConfig,
		ChallanConfig:   r.ChallanConfig,
		TermsConditions: r.TermsConditions,
	}
	if settings.BrandingConfig == nil {
		settings.BrandingConfig = map[string]interface{}{}
	}
	if settings.ChallanConfig == nil {
		settings.ChallanConfig = map[string]interface{}{}
	}
	if r.EmailConfig != nil {
		settings.EmailConfig = &domain.MailConfig{
			SenderName:     r.EmailConfig.SenderName,
			SenderEmail:    r.EmailConfig.SenderEmail,
			SenderPassword: r.EmailConfig.SenderPassword,
			Server:         r.EmailConfig.Server,
			Port:           r.EmailConfig.Port,
			UseTLS:         r.EmailConfig.UseTLS,
		}
	}
	return settings
}

// SettingsResponse is the client-facing view of tenant settings. The sender
// password is never echoed back.
type SettingsResponse struct {
	BrandingConfig  map[string]interface{} `json:"branding_config"`
	ChallanConfig   map[string]interface{} `json:"challan_config"`
	TermsConditions string                 `json:"terms_conditions,omitempty"`
	EmailConfig     *MailConfigView        `json:"email_config,omitempty"`
}

// MailConfigView is the redacted sender configuration
type MailConfigView struct {
	SenderName  string `json:"sender_name,omitempty"`
	SenderEmail string `json:"sender_email"`
	Server      string `json:"mail_server"`
	Port        int    `json:"mail_port"`
	UseTLS      bool   `json:"use_tls"`
	Configured  bool   `json:"configured"`
}

// ToSettingsResponse converts domain settings to their response form
func ToSettingsResponse(s *domain.TenantSettings) *SettingsResponse {
	resp := &SettingsResponse{
		BrandingConfig:  s.BrandingConfig,
		ChallanConfig:   s.ChallanConfig,
		TermsConditions: s.TermsConditions,
	}
	if s.EmailConfig != nil {
		resp.EmailConfig = &MailConfigView{
			SenderName:  s.EmailConfig.SenderName,
			SenderEmail: s.EmailConfig.SenderEmail,
			Server:      s.EmailConfig.Server,
			Port:        s.EmailConfig.Port,
			UseTLS:      s.EmailConfig.UseTLS,
			Configured:  s.EmailConfig.IsComplete(),
		}
	}
	return resp
}
