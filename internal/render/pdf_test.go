package render

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

type memStore struct {
	saved map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string][]byte)}
}

func (s *memStore) Save(category, name string, data []byte) (string, error) {
	location := "/static/" + category + "/" + name
	s.saved[location] = data
	return location, nil
}

func (s *memStore) Resolve(location string) (string, bool) {
	_, ok := s.saved[location]
	return location, ok
}

func (s *memStore) Remove(location string) error {
	delete(s.saved, location)
	return nil
}

func testData(status string) Data {
	return Data{
		ChallanNo:       "CH-010120260930001a2b",
		CustomerName:    "Asha Verma",
		Email:           "asha@example.com",
		ContactNumber:   "9876543210",
		City:            "Pune",
		SerialNumber:    "SN-44821",
		Problem:         "Screen flicker",
		Accessories:     []string{"charger", "bag"},
		Warranty:        "in_warranty",
		DispatchThrough: "courier",
		Items:           []domain.Item{{Description: "Laptop", Quantity: 1}},
		Status:          status,
		GeneratedOn:     time.Now(),
	}
}

func TestRenderer_Render(t *testing.T) {
	store := newMemStore()
	r := NewRenderer(store, nil)

	design := map[string]interface{}{
		"company_name":     "Acme Repairs",
		"tagline":          "Fast and fair",
		"theme_color":      "#336699",
		"terms_conditions": "No refunds after 30 days",
	}
	location, err := r.Render(context.Background(), testData(domain.StatusPending), design)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if location != "/static/pdfs/CH-010120260930001a2b.pdf" {
		t.Errorf("location = %q, want pdfs path", location)
	}

	data := store.saved[location]
	if len(data) == 0 {
		t.Fatal("document should not be empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("document should start with PDF header")
	}
}

func TestRenderer_Render_DeliveredWatermark(t *testing.T) {
	store := newMemStore()
	r := NewRenderer(store, nil)

	location, err := r.Render(context.Background(), testData(domain.StatusDelivered), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(store.saved[location]) == 0 {
		t.Fatal("document should not be empty")
	}
}

func TestRenderer_Render_EmptyDesign(t *testing.T) {
	store := newMemStore()
	r := NewRenderer(store, nil)

	if _, err := r.Render(context.Background(), testData(domain.StatusPending), nil); err != nil {
		t.Fatalf("Render() with empty design failed: %v", err)
	}
}

func TestParseThemeColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#114e9e", 17, 78, 158},
		{"336699", 51, 102, 153},
		{"", 17, 78, 158},
		{"#zzzzzz", 17, 78, 158},
		{"#fff", 17, 78, 158},
	}
	for _, tt := range tests {
		r, g, b := parseThemeColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseThemeColor(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.hex, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestImageTypeOf(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	if got := imageTypeOf(png); got != "PNG" {
		t.Errorf("imageTypeOf(png) = %q, want PNG", got)
	}
	if got := imageTypeOf([]byte("not an image")); got != "" {
		t.Errorf("imageTypeOf(text) = %q, want empty", got)
	}
}
