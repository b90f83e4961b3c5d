package response

import (
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"key": "value"})

	if !resp.Success {
		t.Error("Success should be true")
	}
	if resp.Error != nil {
		t.Error("Error should be nil")
	}
	if resp.Data == nil {
		t.Error("Data should be set")
	}
}

func TestSuccessWithWarnings(t *testing.T) {
	resp := SuccessWithWarnings("data", []string{"document"})

	if !resp.Success {
		t.Error("Success should be true")
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0] != "document" {
		t.Errorf("Warnings = %v, want [document]", resp.Warnings)
	}
}

func TestSuccessWithWarnings_EmptyOmitted(t *testing.T) {
	resp := SuccessWithWarnings("data", nil)
	if resp.Warnings != nil {
		t.Errorf("Warnings = %v, want nil", resp.Warnings)
	}
}

func TestError(t *testing.T) {
	resp := Error(ErrCodeOTPMismatch, "OTP does not match")

	if resp.Success {
		t.Error("Success should be false")
	}
	if resp.Error == nil {
		t.Fatal("Error should be set")
	}
	if resp.Error.Code != ErrCodeOTPMismatch {
		t.Errorf("Code = %q, want %q", resp.Error.Code, ErrCodeOTPMismatch)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidState, http.StatusConflict},
		{ErrCodeRecipientMissing, http.StatusBadRequest},
		{ErrCodeOTPMismatch, http.StatusBadRequest},
		{ErrCodeOTPExpired, http.StatusBadRequest},
		{ErrCodeNoOTPIssued, http.StatusBadRequest},
		{ErrCodeTooManyAttempts, http.StatusTooManyRequests},
		{ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorCodeToHTTPStatus[tt.code]; got != tt.want {
			t.Errorf("status for %s = %d, want %d", tt.code, got, tt.want)
		}
	}
}
