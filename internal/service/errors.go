package service

import "errors"

var (
	// ErrChallanNotFound is returned when no challan matches the tenant and number
	ErrChallanNotFound = errors.New("challan not found")

	// ErrInvalidState is returned when an operation requires a state the
	// challan is not in, such as mutating a delivered challan
	ErrInvalidState = errors.New("challan is not in a valid state for this operation")

	// ErrRecipientMissing is returned when a notification is requested for a
	// challan without an email address
	ErrRecipientMissing = errors.New("challan has no recipient email")

	// ErrNoOtpIssued is returned when verification runs before any code exists
	ErrNoOtpIssued = errors.New("no otp has been issued for this challan")

	// ErrOTPMismatch is returned when the submitted code differs from the
	// issued one
	ErrOTPMismatch = errors.New("otp does not match")

	// ErrOTPExpired is returned when a matching code is past its expiry
	ErrOTPExpired = errors.New("otp has expired")

	// ErrTooManyAttempts is returned when the verification lockout is active
	ErrTooManyAttempts = errors.New("too many failed otp attempts")

	// ErrSettingsNotFound is returned when a tenant has no stored settings
	ErrSettingsNotFound = errors.New("tenant settings not found")
)
