package dto

import (
	"testing"
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

func TestToChallanResponse_FormatsTimestamps(t *testing.T) {
	created := time.Date(2026, 8, 29, 14, 5, 9, 0, time.Local)
	deliveredAt := time.Date(2026, 8, 30, 9, 30, 0, 0, time.Local)
	deliveredBy := "Ravi"

	c := &domain.Challan{
		TenantID:    "t1",
		ChallanNo:   "CH-1",
		Status:      domain.StatusDelivered,
		CreatedAt:   created,
		UpdatedAt:   created,
		DeliveredAt: &deliveredAt,
		DeliveredBy: &deliveredBy,
	}

	resp := ToChallanResponse(c)

	if resp.CreatedAt != "29/08/2026, 02:05:09 PM" {
		t.Errorf("CreatedAt = %q, want %q", resp.CreatedAt, "29/08/2026, 02:05:09 PM")
	}
	if resp.DeliveredAt != "30/08/2026, 09:30:00 AM" {
		t.Errorf("DeliveredAt = %q, want %q", resp.DeliveredAt, "30/08/2026, 09:30:00 AM")
	}
	if resp.DeliveredBy != "Ravi" {
		t.Errorf("DeliveredBy = %q, want Ravi", resp.DeliveredBy)
	}
}

func TestToChallanResponse_PendingOmitsDelivery(t *testing.T) {
	c := &domain.Challan{
		ChallanNo: "CH-1",
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	resp := ToChallanResponse(c)

	if resp.DeliveredAt != "" {
		t.Errorf("DeliveredAt = %q, want empty", resp.DeliveredAt)
	}
	if resp.DeliveredBy != "" {
		t.Errorf("DeliveredBy = %q, want empty", resp.DeliveredBy)
	}
}

func TestCreateChallanRequest_ToDomain(t *testing.T) {
	req := &CreateChallanRequest{
		CustomerName: "Asha Verma",
		Email:        "asha@example.com",
		Problem:      "Screen flicker",
		Items: []ItemRequest{
			{Description: "Laptop"},
			{Description: "Charger", Quantity: 2},
		},
	}

	c := req.ToDomain("t1", "emp-9")

	if c.TenantID != "t1" {
		t.Errorf("TenantID = %q, want t1", c.TenantID)
	}
	if c.EmployeeID != "emp-9" {
		t.Errorf("EmployeeID = %q, want emp-9", c.EmployeeID)
	}
	if len(c.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(c.Items))
	}
	// Zero quantity defaults to one
	if c.Items[0].Quantity != 1 {
		t.Errorf("Items[0].Quantity = %d, want 1", c.Items[0].Quantity)
	}
	if c.Items[1].Quantity != 2 {
		t.Errorf("Items[1].Quantity = %d, want 2", c.Items[1].Quantity)
	}
}

func TestUpdateChallanRequest_ToInput_OmitsAbsentFields(t *testing.T) {
	problem := "Battery drain"
	req := &UpdateChallanRequest{Problem: &problem}

	input := req.ToInput()

	if input.Problem == nil || *input.Problem != "Battery drain" {
		t.Error("Problem should be carried over")
	}
	if input.CustomerName != nil {
		t.Error("CustomerName should stay nil when absent")
	}
	if input.Items != nil {
		t.Error("Items should stay nil when absent")
	}
}
