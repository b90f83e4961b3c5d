package domain

import (
	"time"
)

// NotificationKind identifies which message a job carries
type NotificationKind string

const (
	KindCreation             NotificationKind = "creation"
	KindOTP                  NotificationKind = "otp"
	KindDeliveryConfirmation NotificationKind = "delivery_confirmation"
)

// Outbox message states
const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxSent       = "sent"
	OutboxFailed     = "failed"
)

// NotificationPayload carries everything the dispatcher needs to build a
// message at send time. Attachment paths are resolved when the job runs,
// not when it is enqueued; a file missing by then is silently omitted.
type NotificationPayload struct {
	CustomerName    string     `json:"customer_name,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	Problem         string     `json:"problem,omitempty"`
	Accessories     []string   `json:"accessories,omitempty"`
	OTPCode         string     `json:"otp_code,omitempty"`
	TTLMinutes      int        `json:"ttl_minutes,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	DeliveredBy     string     `json:"delivered_by,omitempty"`
	DocumentPath    string     `json:"document_path,omitempty"`
	ImagePaths      []string   `json:"image_paths,omitempty"`
}

// OutboxMessage is a durable notification job. It is written in the same
// transaction scope as the state change that triggered it and consumed by
// the dispatch worker pool with at-least-once semantics. The pair
// (ChallanNo, Kind) is the idempotency key for a pending message.
type OutboxMessage struct {
	ID        string
	TenantID  string
	ChallanNo string
	Kind      NotificationKind
	Recipient string
	Payload   NotificationPayload
	Status    string
	Attempts  int
	LastError string
	ClaimedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
