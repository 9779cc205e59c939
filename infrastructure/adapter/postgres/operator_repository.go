package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// OperatorRepository implements operator lookups on PostgreSQL.
type OperatorRepository struct{ db *sql.DB }

func NewOperatorRepository(db *sql.DB) outbound.OperatorRepository {
	return &OperatorRepository{db: db}
}

const operatorColumns = `id, email, name, role, password_hash, active, created_at, updated_at`

func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	return r.scanOperator(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE email = $1`
	return r.scanOperator(conn(ctx, r.db).QueryRowContext(ctx, query, email))
}

func (r *OperatorRepository) scanOperator(row *sql.Row) (*domain.Operator, error) {
	var operator domain.Operator
	err := row.Scan(
		&operator.ID,
		&operator.Email,
		&operator.Name,
		&operator.Role,
		&operator.PasswordHash,
		&operator.Active,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	return &operator, nil
}
