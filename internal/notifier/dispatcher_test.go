package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

type fakeTransport struct {
	calls    int
	failures int
	lastCfg  domain.MailConfig
	lastMsg  Message
}

func (f *fakeTransport) Send(cfg domain.MailConfig, msg Message) error {
	f.calls++
	f.lastCfg = cfg
	f.lastMsg = msg
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

type fakeStore struct {
	files map[string]string
}

func (f *fakeStore) Save(category, name string, data []byte) (string, error) {
	location := "/static/" + category + "/" + name
	if f.files == nil {
		f.files = make(map[string]string)
	}
	f.files[location] = location
	return location, nil
}

func (f *fakeStore) Resolve(location string) (string, bool) {
	path, ok := f.files[location]
	return path, ok
}

func (f *fakeStore) Remove(location string) error {
	delete(f.files, location)
	return nil
}

func outboxMessage(kind domain.NotificationKind) *domain.OutboxMessage {
	return &domain.OutboxMessage{
		ID:        "msg-1",
		TenantID:  "t1",
		ChallanNo: "CH-100",
		Kind:      kind,
		Recipient: "customer@example.com",
		Payload: domain.NotificationPayload{
			CustomerName: "Asha Verma",
			OTPCode:      "004217",
			TTLMinutes:   2,
		},
	}
}

func newTestDispatcher(transport Transport, store *fakeStore, maxAttempts int) *Dispatcher {
	resolver := NewResolver(&fakeSettingsRepo{}, defaultSender, nil)
	return NewDispatcher(resolver, transport, store, maxAttempts, time.Millisecond, nil)
}

func TestDispatcher_SucceedsAfterTransientFailures(t *testing.T) {
	transport := &fakeTransport{failures: 2}
	d := newTestDispatcher(transport, &fakeStore{}, 3)

	err := d.Send(context.Background(), outboxMessage(domain.KindOTP))
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if transport.calls != 3 {
		t.Errorf("transport calls = %d, want 3", transport.calls)
	}
	if !strings.Contains(transport.lastMsg.Subject, "CH-100") {
		t.Errorf("subject = %q, want it to carry the challan number", transport.lastMsg.Subject)
	}
	if !strings.Contains(transport.lastMsg.HTMLBody, "004217") {
		t.Error("otp body should carry the code")
	}
}

func TestDispatcher_ExhaustsAttempts(t *testing.T) {
	transport := &fakeTransport{failures: 10}
	d := newTestDispatcher(transport, &fakeStore{}, 3)

	err := d.Send(context.Background(), outboxMessage(domain.KindCreation))
	if err == nil {
		t.Fatal("Send() should fail after exhausting attempts")
	}
	if transport.calls != 3 {
		t.Errorf("transport calls = %d, want 3", transport.calls)
	}
}

func TestDispatcher_MissingRecipient(t *testing.T) {
	msg := outboxMessage(domain.KindCreation)
	msg.Recipient = ""
	transport := &fakeTransport{}
	d := newTestDispatcher(transport, &fakeStore{}, 3)

	if err := d.Send(context.Background(), msg); err == nil {
		t.Fatal("Send() should fail without a recipient")
	}
	if transport.calls != 0 {
		t.Errorf("transport calls = %d, want 0", transport.calls)
	}
}

func TestDispatcher_MissingAttachmentIsOmitted(t *testing.T) {
	msg := outboxMessage(domain.KindCreation)
	msg.Payload.DocumentPath = "/static/pdfs/CH-100.pdf"
	msg.Payload.ImagePaths = []string{"/static/uploads/gone.jpg"}

	store := &fakeStore{}
	// Only the document exists on disk
	if _, err := store.Save("pdfs", "CH-100.pdf", []byte("pdf")); err != nil {
		t.Fatal(err)
	}

	transport := &fakeTransport{}
	d := newTestDispatcher(transport, store, 1)

	if err := d.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if len(transport.lastMsg.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1 (missing image dropped)", len(transport.lastMsg.Attachments))
	}
	if transport.lastMsg.Attachments[0].Name != "CH-100.pdf" {
		t.Errorf("attachment name = %q, want CH-100.pdf", transport.lastMsg.Attachments[0].Name)
	}
}

func TestDispatcher_UsesTenantSenderWhenComplete(t *testing.T) {
	tenantCfg := &domain.MailConfig{
		SenderEmail:    "mail@acme.example",
		SenderPassword: "acme-secret",
		Server:         "smtp.acme.example",
		Port:           465,
	}
	resolver := NewResolver(&fakeSettingsRepo{settings: &domain.TenantSettings{TenantID: "t1", EmailConfig: tenantCfg}}, defaultSender, nil)
	transport := &fakeTransport{}
	d := NewDispatcher(resolver, transport, &fakeStore{}, 1, time.Millisecond, nil)

	if err := d.Send(context.Background(), outboxMessage(domain.KindOTP)); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if transport.lastCfg.Server != "smtp.acme.example" {
		t.Errorf("sender server = %q, want tenant server", transport.lastCfg.Server)
	}
}

func TestBuildMessage_Subjects(t *testing.T) {
	tests := []struct {
		kind domain.NotificationKind
		want string
	}{
		{domain.KindCreation, "Challan - CH-9"},
		{domain.KindOTP, "OTP for Challan CH-9"},
		{domain.KindDeliveryConfirmation, "Delivery Confirmation - Challan CH-9"},
	}
	for _, tt := range tests {
		subject, _, err := BuildMessage("CH-9", tt.kind, domain.NotificationPayload{})
		if err != nil {
			t.Fatalf("BuildMessage(%s) failed: %v", tt.kind, err)
		}
		if subject != tt.want {
			t.Errorf("subject = %q, want %q", subject, tt.want)
		}
	}
}

func TestBuildMessage_UnknownKind(t *testing.T) {
	if _, _, err := BuildMessage("CH-9", "telegraph", domain.NotificationPayload{}); err == nil {
		t.Error("BuildMessage() should reject an unknown kind")
	}
}
