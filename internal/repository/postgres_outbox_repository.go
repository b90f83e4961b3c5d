package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// PostgresOutboxRepository implements OutboxRepository using PostgreSQL
type PostgresOutboxRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOutboxRepository creates a new PostgresOutboxRepository
func NewPostgresOutboxRepository(pool *pgxpool.Pool) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{pool: pool}
}

// Enqueue stores a pending message. The partial unique index on
// (challan_no, kind) WHERE status = 'pending' makes re-enqueueing the same
// logical notice replace the stale pending row instead of duplicating it.
// On the replace path the existing row keeps its id, so it is read back
// into msg.ID.
func (r *PostgresOutboxRepository) Enqueue(ctx context.Context, msg *domain.OutboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notification_outbox (id, tenant_id, challan_no, kind, recipient, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', 0, NOW(), NOW())
		ON CONFLICT (challan_no, kind) WHERE status = 'pending'
		DO UPDATE SET recipient = EXCLUDED.recipient, payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query, msg.ID, msg.TenantID, msg.ChallanNo, string(msg.Kind), msg.Recipient, payload).Scan(&msg.ID)
}

// Claim atomically moves up to limit due messages to processing and returns
// them. Processing rows older than the visibility timeout are failed claims
// from a crashed worker and are picked up again (at-least-once).
func (r *PostgresOutboxRepository) Claim(ctx context.Context, limit int, visibility time.Duration) ([]*domain.OutboxMessage, error) {
	query := `
		UPDATE notification_outbox
		SET status = 'processing', attempts = attempts + 1, claimed_at = NOW(), updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = 'pending'
			   OR (status = 'processing' AND claimed_at < NOW() - ($2 * interval '1 second'))
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, tenant_id, challan_no, kind, recipient, payload, status, attempts,
		          COALESCE(last_error, ''), claimed_at, created_at, updated_at
	`
	rows, err := r.pool.Query(ctx, query, limit, visibility.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.OutboxMessage, 0)
	for rows.Next() {
		msg := &domain.OutboxMessage{}
		var kind string
		var payload []byte
		err := rows.Scan(
			&msg.ID,
			&msg.TenantID,
			&msg.ChallanNo,
			&kind,
			&msg.Recipient,
			&payload,
			&msg.Status,
			&msg.Attempts,
			&msg.LastError,
			&msg.ClaimedAt,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		msg.Kind = domain.NotificationKind(kind)
		if err := json.Unmarshal(payload, &msg.Payload); err != nil {
			msg.Payload = domain.NotificationPayload{}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkSent finalizes a delivered message
func (r *PostgresOutboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE notification_outbox SET status = 'sent', updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// MarkFailed finalizes a message whose delivery attempts were exhausted
func (r *PostgresOutboxRepository) MarkFailed(ctx context.Context, id, lastError string) error {
	query := `UPDATE notification_outbox SET status = 'failed', last_error = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, lastError)
	return err
}
