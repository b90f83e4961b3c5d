package tracking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// jsonMarshal is swappable for testing the serialization fallback
var jsonMarshal = json.Marshal

// Snapshot is the set of challan fields permitted on a scannable artifact.
// Customer name, phone, city and email are excluded by construction: the
// artifact is readable by anyone holding the device, so redaction is a hard
// policy, not an option.
type Snapshot struct {
	ChallanNo       string        `json:"challan_no"`
	TenantID        string        `json:"tenant_id"`
	SerialNumber    string        `json:"serial_number,omitempty"`
	Problem         string        `json:"problem,omitempty"`
	Accessories     []string      `json:"accessories"`
	Warranty        string        `json:"warranty,omitempty"`
	DispatchThrough string        `json:"dispatch_through,omitempty"`
	Status          string        `json:"status"`
	Items           []domain.Item `json:"items"`
	GeneratedAt     string        `json:"qr_generated_at"`
}

// SnapshotOf copies the permitted fields of a challan at creation time
func SnapshotOf(challan *domain.Challan) Snapshot {
	return Snapshot{
		ChallanNo:       challan.ChallanNo,
		TenantID:        challan.TenantID,
		SerialNumber:    challan.SerialNumber,
		Problem:         challan.Problem,
		Accessories:     challan.Accessories,
		DispatchThrough: challan.DispatchThrough,
		Warranty:        challan.Warranty,
		Status:          challan.Status,
		Items:           challan.Items,
	}
}

// BuildPayload serializes the snapshot to the compact JSON embedded in the
// tracking artifact. If serialization fails the payload degrades to the bare
// public identifier; ticket creation never fails on the tracking artifact.
func BuildPayload(snapshot Snapshot) string {
	if snapshot.GeneratedAt == "" {
		snapshot.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}
	content := struct {
		Data Snapshot `json:"data"`
	}{Data: snapshot}

	raw, err := jsonMarshal(content)
	if err != nil {
		return fmt.Sprintf("Challan:%s", snapshot.ChallanNo)
	}
	return string(raw)
}
