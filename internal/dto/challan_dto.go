package dto

import (
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/service"
)

// timestampLayout is the display format for challan timestamps
const timestampLayout = "02/01/2006, 03:04:05 PM"

// ItemRequest is one line item on a create or update request
type ItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity"`
}

// CreateChallanRequest is the payload for opening a challan
type CreateChallanRequest struct {
	CustomerName    string        `json:"customer_name" binding:"required"`
	Email           string        `json:"email" binding:"omitempty,email"`
	ContactNumber   string        `json:"contact_number"`
	SerialNumber    string        `json:"serial_number"`
	City            string        `json:"city"`
	Problem         string        `json:"problem" binding:"required"`
	Accessories     []string      `json:"accessories"`
	Warranty        string        `json:"warranty"`
	DispatchThrough string        `json:"dispatch_through"`
	Items           []ItemRequest `json:"items"`
	Images          []string      `json:"images"`
}

// ToDomain builds the challan this request describes
func (r *CreateChallanRequest) ToDomain(tenantID, employeeID string) *domain.Challan {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, domain.Item{Description: item.Description, Quantity: qty})
	}
	return &domain.Challan{
		TenantID:        tenantID,
		CustomerName:    r.CustomerName,
		Email:           r.Email,
		ContactNumber:   r.ContactNumber,
		SerialNumber:    r.SerialNumber,
		City:            r.City,
		Problem:         r.Problem,
		Accessories:     r.Accessories,
		Warranty:        r.Warranty,
		DispatchThrough: r.DispatchThrough,
		EmployeeID:      employeeID,
		Items:           items,
		Images:          r.Images,
	}
}

// UpdateChallanRequest is the payload for changing a pending challan.
// Absent fields stay untouched.
type UpdateChallanRequest struct {
	CustomerName    *string       `json:"customer_name"`
	Email           *string       `json:"email" binding:"omitempty,email"`
	ContactNumber   *string       `json:"contact_number"`
	SerialNumber    *string       `json:"serial_number"`
	City            *string       `json:"city"`
	Problem         *string       `json:"problem"`
	Accessories     []string      `json:"accessories"`
	Warranty        *string       `json:"warranty"`
	DispatchThrough *string       `json:"dispatch_through"`
	Items           []ItemRequest `json:"items"`
	Images          []string      `json:"images"`
}

// ToInput maps the request to the service update input
func (r *UpdateChallanRequest) ToInput() service.UpdateInput {
	input := service.UpdateInput{
		CustomerName:    r.CustomerName,
		Email:           r.Email,
		ContactNumber:   r.ContactNumber,
		SerialNumber:    r.SerialNumber,
		City:            r.City,
		Problem:         r.Problem,
		Accessories:     r.Accessories,
		Warranty:        r.Warranty,
		DispatchThrough: r.DispatchThrough,
		Images:          r.Images,
	}
	if r.Items != nil {
		items := make([]domain.Item, 0, len(r.Items))
		for _, item := range r.Items {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			items = append(items, domain.Item{Description: item.Description, Quantity: qty})
		}
		input.Items = items
	}
	return input
}

// SendOTPRequest is the payload for issuing a pickup code
type SendOTPRequest struct {
	TTLMinutes int `json:"ttl_minutes" binding:"omitempty,min=1,max=60"`
}

// VerifyOTPRequest is the payload for confirming a pickup
type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// ChallanResponse is the client-facing view of a challan
type ChallanResponse struct {
	ChallanNo        string        `json:"challan_no"`
	CustomerName     string        `json:"customer_name"`
	Email            string        `json:"email,omitempty"`
	ContactNumber    string        `json:"contact_number,omitempty"`
	SerialNumber     string        `json:"serial_number,omitempty"`
	City             string        `json:"city,omitempty"`
	Problem          string        `json:"problem"`
	Accessories      []string      `json:"accessories"`
	Warranty         string        `json:"warranty,omitempty"`
	DispatchThrough  string        `json:"dispatch_through,omitempty"`
	EmployeeID       string        `json:"employee_id,omitempty"`
	Items            []domain.Item `json:"items"`
	Images           []string      `json:"images,omitempty"`
	Status           string        `json:"status"`
	DocumentURL      string        `json:"pdf_url,omitempty"`
	TrackingCodeURL  string        `json:"qr_code_url,omitempty"`
	NotificationSent bool          `json:"email_sent"`
	DeliveredAt      string        `json:"delivered_at,omitempty"`
	DeliveredBy      string        `json:"delivered_by,omitempty"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
}

// ToChallanResponse converts a domain challan to its response form
func ToChallanResponse(c *domain.Challan) *ChallanResponse {
	resp := &ChallanResponse{
		ChallanNo:        c.ChallanNo,
		CustomerName:     c.CustomerName,
		Email:            c.Email,
		ContactNumber:    c.ContactNumber,
		SerialNumber:     c.SerialNumber,
		City:             c.City,
		Problem:          c.Problem,
		Accessories:      c.Accessories,
		Warranty:         c.Warranty,
		DispatchThrough:  c.DispatchThrough,
		EmployeeID:       c.EmployeeID,
		Items:            c.Items,
		Images:           c.Images,
		Status:           c.Status,
		DocumentURL:      c.DocumentURL,
		TrackingCodeURL:  c.TrackingCodeURL,
		NotificationSent: c.NotificationSent,
		CreatedAt:        formatTimestamp(c.CreatedAt),
		UpdatedAt:        formatTimestamp(c.UpdatedAt),
	}
	if c.DeliveredAt != nil {
		resp.DeliveredAt = formatTimestamp(*c.DeliveredAt)
	}
	if c.DeliveredBy != nil {
		resp.DeliveredBy = *c.DeliveredBy
	}
	return resp
}

// ToChallanResponses converts a list of challans
func ToChallanResponses(challans []*domain.Challan) []*ChallanResponse {
	out := make([]*ChallanResponse, 0, len(challans))
	for _, c := range challans {
		out = append(out, ToChallanResponse(c))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}
