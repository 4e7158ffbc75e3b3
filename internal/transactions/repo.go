package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store is the persistence the service needs. Every method is one statement
// and every read is filtered by session id.
type Store interface {
	Insert(ctx context.Context, t *Transaction) error
	ListBySession(ctx context.Context, sessionID string) ([]Transaction, error)
	GetBySession(ctx context.Context, sessionID string, id uuid.UUID) (*Transaction, error)
	SumBySession(ctx context.Context, sessionID string) (decimal.Decimal, error)
}

type Repo struct {
	Pool *pgxpool.Pool
}

var _ Store = (*Repo)(nil)

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// Insert writes t and fills CreatedAt from the database default.
func (r *Repo) Insert(ctx context.Context, t *Transaction) error {
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO transactions (id, title, amount, session_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		t.ID, t.Title, t.Amount, t.SessionID,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *Repo) ListBySession(ctx context.Context, sessionID string) ([]Transaction, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, title, amount, session_id, created_at
		 FROM transactions
		 WHERE session_id = $1
		 ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Title, &t.Amount, &t.SessionID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// GetBySession returns nil, nil when the row does not exist or belongs to
// another session.
func (r *Repo) GetBySession(ctx context.Context, sessionID string, id uuid.UUID) (*Transaction, error) {
	var t Transaction
	err := r.Pool.QueryRow(ctx,
		`SELECT id, title, amount, session_id, created_at
		 FROM transactions
		 WHERE session_id = $1 AND id = $2`,
		sessionID, id,
	).Scan(&t.ID, &t.Title, &t.Amount, &t.SessionID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *Repo) SumBySession(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE session_id = $1`,
		sessionID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}
