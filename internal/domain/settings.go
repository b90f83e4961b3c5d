package domain

import (
	"time"
)

// MailConfig is an outbound SMTP sender configuration. It is either a
// tenant's own sender or the process-wide default.
type MailConfig struct {
	SenderName     string `json:"sender_name,omitempty"`
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
	Server         string `json:"mail_server"`
	Port           int    `json:"mail_port"`
	UseTLS         bool   `json:"use_tls"`
}

// IsComplete reports whether every required field is present. A partially
// filled configuration counts as not configured at all.
func (m *MailConfig) IsComplete() bool {
	return m.SenderEmail != "" && m.SenderPassword != "" && m.Server != "" && m.Port > 0
}

// TenantSettings holds a tenant's stored configuration: the branding and
// challan layout blobs, free-text terms, and the optional mail sender.
type TenantSettings struct {
	TenantID        string                 `json:"tenant_id"`
	BrandingConfig  map[string]interface{} `json:"branding_config"`
	ChallanConfig   map[string]interface{} `json:"challan_config"`
	TermsConditions string                 `json:"terms_conditions,omitempty"`
	EmailConfig     *MailConfig            `json:"email_config,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// MergeDesign produces the effective design for document rendering:
// challan layout keys overridden by same-named branding keys, with the
// terms text attached under "terms_conditions". The result is a pure
// function of its inputs and is recomputed on every render.
func MergeDesign(branding, layout map[string]interface{}, terms string) map[string]interface{} {
	merged := make(map[string]interface{}, len(branding)+len(layout)+1)
	for k, v := range layout {
		merged[k] = v
	}
	for k, v := range branding {
		merged[k] = v
	}
	if terms != "" {
		merged["terms_conditions"] = terms
	}
	return merged
}

// DesignString reads a string-valued design key, returning fallback when
// the key is absent or not a string
func DesignString(design map[string]interface{}, key, fallback string) string {
	if v, ok := design[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
