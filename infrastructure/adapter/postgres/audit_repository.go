package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// AuditRepository implements append-only audit storage on PostgreSQL.
// There is no update or delete path.
type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) outbound.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, record *domain.AuditRecord) error {
	query := `
        INSERT INTO audit_records (id, action, actor_id, transfer_id, account_id, detail, ip_address, user_agent, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	var detailJSON []byte
	if len(record.Detail) > 0 {
		var err error
		detailJSON, err = json.Marshal(record.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal audit detail: %w", err)
		}
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		record.ID,
		string(record.Action),
		record.ActorID,
		record.TransferID,
		record.AccountID,
		func() interface{} {
			if detailJSON == nil {
				return nil
			}
			return string(detailJSON)
		}(),
		record.IPAddress,
		record.UserAgent,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByTransferID(ctx context.Context, transferID string) ([]*domain.AuditRecord, error) {
	query := `
        SELECT id, action, actor_id, transfer_id, account_id, detail, ip_address, user_agent, created_at
        FROM audit_records
        WHERE transfer_id = $1
        ORDER BY created_at ASC
    `
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		var detailJSON []byte
		err := rows.Scan(
			&record.ID,
			&record.Action,
			&record.ActorID,
			&record.TransferID,
			&record.AccountID,
			&detailJSON,
			&record.IPAddress,
			&record.UserAgent,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if len(detailJSON) > 0 {
			var detail domain.AuditDetail
			if err := json.Unmarshal(detailJSON, &detail); err == nil {
				record.Detail = detail
			}
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}
