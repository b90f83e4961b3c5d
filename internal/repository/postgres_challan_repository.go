package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

const challanColumns = `tenant_id, challan_no, customer_name, COALESCE(email, '') as email,
	COALESCE(contact_number, '') as contact_number, serial_number, COALESCE(city, '') as city,
	problem, COALESCE(accessories, '[]'::jsonb) as accessories, COALESCE(warranty, '') as warranty,
	COALESCE(dispatch_through, '') as dispatch_through, COALESCE(employee_id, '') as employee_id,
	COALESCE(items, '[]'::jsonb) as items, COALESCE(images, '[]'::jsonb) as images, status,
	COALESCE(pdf_url, '') as pdf_url, COALESCE(qr_code_url, '') as qr_code_url, email_sent,
	otp_code, otp_expires_at, delivered_at, delivered_by, created_at, updated_at`

// PostgresChallanRepository implements ChallanRepository using PostgreSQL
type PostgresChallanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresChallanRepository creates a new PostgresChallanRepository
func NewPostgresChallanRepository(pool *pgxpool.Pool) *PostgresChallanRepository {
	return &PostgresChallanRepository{pool: pool}
}

// Create inserts a new challan
func (r *PostgresChallanRepository) Create(ctx context.Context, challan *domain.Challan) error {
	accessories, err := json.Marshal(challan.Accessories)
	if err != nil {
		return err
	}
	items, err := json.Marshal(challan.Items)
	if err != nil {
		return err
	}
	images, err := json.Marshal(challan.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO challans (
			tenant_id, challan_no, customer_name, email, contact_number, serial_number,
			city, problem, accessories, warranty, dispatch_through, employee_id,
			items, images, status, pdf_url, qr_code_url, email_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = r.pool.Exec(ctx, query,
		challan.TenantID,
		challan.ChallanNo,
		challan.CustomerName,
		nullStringOrValue(challan.Email),
		nullStringOrValue(challan.ContactNumber),
		challan.SerialNumber,
		nullStringOrValue(challan.City),
		challan.Problem,
		accessories,
		nullStringOrValue(challan.Warranty),
		nullStringOrValue(challan.DispatchThrough),
		nullStringOrValue(challan.EmployeeID),
		items,
		images,
		challan.Status,
		nullStringOrValue(challan.DocumentURL),
		nullStringOrValue(challan.TrackingCodeURL),
		challan.NotificationSent,
		challan.CreatedAt,
		challan.UpdatedAt,
	)
	return err
}

// GetByNo retrieves a challan by tenant and challan number
func (r *PostgresChallanRepository) GetByNo(ctx context.Context, tenantID, challanNo string) (*domain.Challan, error) {
	query := fmt.Sprintf(`SELECT %s FROM challans WHERE tenant_id = $1 AND challan_no = $2`, challanColumns)
	challan, err := scanChallan(r.pool.QueryRow(ctx, query, tenantID, challanNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return challan, nil
}

// List retrieves all challans for a tenant, newest first
func (r *PostgresChallanRepository) List(ctx context.Context, tenantID string) ([]*domain.Challan, error) {
	query := fmt.Sprintf(`SELECT %s FROM challans WHERE tenant_id = $1 ORDER BY created_at DESC`, challanColumns)
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challans := make([]*domain.Challan, 0)
	for rows.Next() {
		challan, err := scanChallan(rows)
		if err != nil {
			return nil, err
		}
		challans = append(challans, challan)
	}
	return challans, rows.Err()
}

// Mutate locks the challan row, applies fn, and persists the mutable fields
// in the same transaction. Row-level exclusivity only; other tickets are
// untouched.
func (r *PostgresChallanRepository) Mutate(ctx context.Context, tenantID, challanNo string, fn func(*domain.Challan) error) (*domain.Challan, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`SELECT %s FROM challans WHERE tenant_id = $1 AND challan_no = $2 FOR UPDATE`, challanColumns)
	challan, err := scanChallan(tx.QueryRow(ctx, query, tenantID, challanNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := fn(challan); err != nil {
		return nil, err
	}

	accessories, err := json.Marshal(challan.Accessories)
	if err != nil {
		return nil, err
	}
	items, err := json.Marshal(challan.Items)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(challan.Images)
	if err != nil {
		return nil, err
	}

	challan.UpdatedAt = time.Now().UTC()
	update := `
		UPDATE challans
		SET customer_name = $3, email = $4, contact_number = $5, serial_number = $6, city = $7,
		    problem = $8, accessories = $9, warranty = $10, dispatch_through = $11, items = $12,
		    images = $13, status = $14, pdf_url = $15, qr_code_url = $16, email_sent = $17,
		    otp_code = $18, otp_expires_at = $19, delivered_at = $20, delivered_by = $21, updated_at = $22
		WHERE tenant_id = $1 AND challan_no = $2
	`
	_, err = tx.Exec(ctx, update,
		tenantID,
		challanNo,
		challan.CustomerName,
		nullStringOrValue(challan.Email),
		nullStringOrValue(challan.ContactNumber),
		challan.SerialNumber,
		nullStringOrValue(challan.City),
		challan.Problem,
		accessories,
		nullStringOrValue(challan.Warranty),
		nullStringOrValue(challan.DispatchThrough),
		items,
		images,
		challan.Status,
		nullStringOrValue(challan.DocumentURL),
		nullStringOrValue(challan.TrackingCodeURL),
		challan.NotificationSent,
		challan.OTPCode,
		challan.OTPExpiresAt,
		challan.DeliveredAt,
		challan.DeliveredBy,
		challan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return challan, nil
}

// SetArtifacts records the tracking code and document locations
func (r *PostgresChallanRepository) SetArtifacts(ctx context.Context, tenantID, challanNo, trackingURL, documentURL string) error {
	query := `
		UPDATE challans
		SET qr_code_url = $3, pdf_url = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND challan_no = $2
	`
	_, err := r.pool.Exec(ctx, query, tenantID, challanNo,
		nullStringOrValue(trackingURL), nullStringOrValue(documentURL))
	return err
}

// SetDocumentURL records the document location alone
func (r *PostgresChallanRepository) SetDocumentURL(ctx context.Context, tenantID, challanNo, documentURL string) error {
	query := `
		UPDATE challans
		SET pdf_url = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND challan_no = $2
	`
	_, err := r.pool.Exec(ctx, query, tenantID, challanNo, nullStringOrValue(documentURL))
	return err
}

// SetNotificationSent records whether the latest notice reached dispatch
func (r *PostgresChallanRepository) SetNotificationSent(ctx context.Context, tenantID, challanNo string, sent bool) error {
	query := `
		UPDATE challans
		SET email_sent = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND challan_no = $2
	`
	_, err := r.pool.Exec(ctx, query, tenantID, challanNo, sent)
	return err
}

// Delete removes the challan row
func (r *PostgresChallanRepository) Delete(ctx context.Context, tenantID, challanNo string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM challans WHERE tenant_id = $1 AND challan_no = $2`, tenantID, challanNo)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// scanChallan reads one challan row from a pgx.Row or pgx.Rows
func scanChallan(row pgx.Row) (*domain.Challan, error) {
	challan := &domain.Challan{}
	var accessories, items, images []byte
	err := row.Scan(
		&challan.TenantID,
		&challan.ChallanNo,
		&challan.CustomerName,
		&challan.Email,
		&challan.ContactNumber,
		&challan.SerialNumber,
		&challan.City,
		&challan.Problem,
		&accessories,
		&challan.Warranty,
		&challan.DispatchThrough,
		&challan.EmployeeID,
		&items,
		&images,
		&challan.Status,
		&challan.DocumentURL,
		&challan.TrackingCodeURL,
		&challan.NotificationSent,
		&challan.OTPCode,
		&challan.OTPExpiresAt,
		&challan.DeliveredAt,
		&challan.DeliveredBy,
		&challan.CreatedAt,
		&challan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(accessories, &challan.Accessories); err != nil {
		challan.Accessories = nil
	}
	if err := json.Unmarshal(items, &challan.Items); err != nil {
		challan.Items = nil
	}
	if err := json.Unmarshal(images, &challan.Images); err != nil {
		challan.Images = nil
	}
	return challan, nil
}

// nullStringOrValue returns nil for empty strings, otherwise returns the value
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
