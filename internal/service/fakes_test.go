package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// memChallanRepo is an in-memory ChallanRepository for service tests
type memChallanRepo struct {
	mu       sync.Mutex
	challans map[string]*domain.Challan
}

func newMemChallanRepo() *memChallanRepo {
	return &memChallanRepo{challans: make(map[string]*domain.Challan)}
}

func repoKey(tenantID, challanNo string) string {
	return tenantID + "/" + challanNo
}

func (r *memChallanRepo) Create(_ context.Context, c *domain.Challan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repoKey(c.TenantID, c.ChallanNo)
	if _, exists := r.challans[key]; exists {
		return errors.New("duplicate challan")
	}
	clone := *c
	r.challans[key] = &clone
	return nil
}

func (r *memChallanRepo) GetByNo(_ context.Context, tenantID, challanNo string) (*domain.Challan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challans[repoKey(tenantID, challanNo)]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *memChallanRepo) List(_ context.Context, tenantID string) ([]*domain.Challan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Challan, 0)
	for _, c := range r.challans {
		if c.TenantID == tenantID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memChallanRepo) Mutate(_ context.Context, tenantID, challanNo string, fn func(*domain.Challan) error) (*domain.Challan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challans[repoKey(tenantID, challanNo)]
	if !ok {
		return nil, nil
	}
	clone := *c
	if err := fn(&clone); err != nil {
		return nil, err
	}
	clone.UpdatedAt = time.Now()
	r.challans[repoKey(tenantID, challanNo)] = &clone
	result := clone
	return &result, nil
}

func (r *memChallanRepo) SetArtifacts(_ context.Context, tenantID, challanNo, trackingURL, documentURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challans[repoKey(tenantID, challanNo)]; ok {
		c.TrackingCodeURL = trackingURL
		c.DocumentURL = documentURL
	}
	return nil
}

func (r *memChallanRepo) SetDocumentURL(_ context.Context, tenantID, challanNo, documentURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challans[repoKey(tenantID, challanNo)]; ok {
		c.DocumentURL = documentURL
	}
	return nil
}

func (r *memChallanRepo) SetNotificationSent(_ context.Context, tenantID, challanNo string, sent bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challans[repoKey(tenantID, challanNo)]; ok {
		c.NotificationSent = sent
	}
	return nil
}

func (r *memChallanRepo) Delete(_ context.Context, tenantID, challanNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repoKey(tenantID, challanNo)
	if _, ok := r.challans[key]; !ok {
		return false, nil
	}
	delete(r.challans, key)
	return true, nil
}

// memSettingsRepo is an in-memory SettingsRepository
type memSettingsRepo struct {
	settings map[string]*domain.TenantSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{settings: make(map[string]*domain.TenantSettings)}
}

func (r *memSettingsRepo) Get(_ context.Context, tenantID string) (*domain.TenantSettings, error) {
	return r.settings[tenantID], nil
}

func (r *memSettingsRepo) Upsert(_ context.Context, s *domain.TenantSettings) error {
	r.settings[s.TenantID] = s
	return nil
}

func (r *memSettingsRepo) Delete(_ context.Context, tenantID string) error {
	delete(r.settings, tenantID)
	return nil
}

// memOutboxRepo is an in-memory OutboxRepository recording enqueued jobs
type memOutboxRepo struct {
	mu         sync.Mutex
	messages   []*domain.OutboxMessage
	enqueueErr error
}

func (r *memOutboxRepo) Enqueue(_ context.Context, msg *domain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enqueueErr != nil {
		return r.enqueueErr
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	for i, existing := range r.messages {
		if existing.ChallanNo == msg.ChallanNo && existing.Kind == msg.Kind && existing.Status == domain.OutboxPending {
			// A replaced pending row keeps its id
			msg.ID = existing.ID
			msg.Status = domain.OutboxPending
			r.messages[i] = msg
			return nil
		}
	}
	msg.Status = domain.OutboxPending
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memOutboxRepo) Claim(_ context.Context, limit int, _ time.Duration) ([]*domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claimed := make([]*domain.OutboxMessage, 0)
	for _, msg := range r.messages {
		if len(claimed) >= limit {
			break
		}
		if msg.Status == domain.OutboxPending {
			msg.Status = domain.OutboxProcessing
			msg.Attempts++
			claimed = append(claimed, msg)
		}
	}
	return claimed, nil
}

func (r *memOutboxRepo) MarkSent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			msg.Status = domain.OutboxSent
		}
	}
	return nil
}

func (r *memOutboxRepo) MarkFailed(_ context.Context, id, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			msg.Status = domain.OutboxFailed
			msg.LastError = lastError
		}
	}
	return nil
}

func (r *memOutboxRepo) byKind(kind domain.NotificationKind) []*domain.OutboxMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.OutboxMessage, 0)
	for _, msg := range r.messages {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}

// memStore is an in-memory artifact store
type memStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	fail  map[string]error
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string][]byte), fail: make(map[string]error)}
}

func (s *memStore) Save(category, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[category]; err != nil {
		return "", err
	}
	location := "/static/" + category + "/" + name
	s.saved[location] = data
	return location, nil
}

func (s *memStore) Resolve(location string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[location]
	return location, ok
}

func (s *memStore) Remove(location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, location)
	return nil
}
