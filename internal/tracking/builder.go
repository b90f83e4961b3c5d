package tracking

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/storage"
)

const qrImageSize = 256

// Builder renders the redacted tracking payload to a scannable PNG and
// stores it through the artifact store
type Builder struct {
	store storage.Store
}

// NewBuilder creates a new Builder
func NewBuilder(store storage.Store) *Builder {
	return &Builder{store: store}
}

// Generate builds the payload for the snapshot, encodes it as a QR image and
// saves it. Returns the artifact location. Any failure is reported to the
// caller, who proceeds without a tracking artifact.
func (b *Builder) Generate(snapshot Snapshot) (string, error) {
	payload := BuildPayload(snapshot)

	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encode tracking code: %w", err)
	}

	location, err := b.store.Save(storage.CategoryQRCodes, snapshot.ChallanNo+".png", png)
	if err != nil {
		return "", fmt.Errorf("save tracking code: %w", err)
	}
	return location, nil
}
