package domain

import (
	"time"
)

// Challan status values. A challan only ever moves pending -> delivered.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// Item is a single line item recorded on a challan
type Item struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Challan represents a service ticket tracking a customer's device through
// intake, repair and pickup. Owned by a tenant; ChallanNo is unique within
// the tenant.
type Challan struct {
	TenantID         string     `json:"tenant_id"`
	ChallanNo        string     `json:"challan_no"`
	CustomerName     string     `json:"customer_name"`
	Email            string     `json:"email,omitempty"`
	ContactNumber    string     `json:"contact_number,omitempty"`
	SerialNumber     string     `json:"serial_number"`
	City             string     `json:"city,omitempty"`
	Problem          string     `json:"problem"`
	Accessories      []string   `json:"accessories"`
	Warranty         string     `json:"warranty,omitempty"`
	DispatchThrough  string     `json:"dispatch_through,omitempty"`
	EmployeeID       string     `json:"employee_id,omitempty"`
	Items            []Item     `json:"items"`
	Images           []string   `json:"images"`
	Status           string     `json:"status"`
	DocumentURL      string     `json:"pdf_url,omitempty"`
	TrackingCodeURL  string     `json:"qr_code_url,omitempty"`
	NotificationSent bool       `json:"email_sent"`
	OTPCode          *string    `json:"-"`
	OTPExpiresAt     *time.Time `json:"-"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	DeliveredBy      *string    `json:"delivered_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsDelivered reports whether the challan has reached its terminal state
func (c *Challan) IsDelivered() bool {
	return c.Status == StatusDelivered
}

// HasRecipient reports whether a customer email is on record
func (c *Challan) HasRecipient() bool {
	return c.Email != ""
}
