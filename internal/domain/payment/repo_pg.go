package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const intentCols = `id, user_id, amount, currency, status, created_at, confirmed_at, transaction_id, payment_method_id`

func (r *repoPG) Create(ctx context.Context, pi *PaymentIntent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment_intents (id, user_id, amount, currency, status, created_at, confirmed_at, transaction_id, payment_method_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pi.ID, pi.UserID, pi.Amount, pi.Currency, pi.Status, pi.CreatedAt, pi.ConfirmedAt, pi.TransactionID, pi.PaymentMethodID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*PaymentIntent, error) {
	return scanIntent(r.pool.QueryRow(ctx, `SELECT `+intentCols+` FROM payment_intents WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, pi *PaymentIntent) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payment_intents SET
			status=$2, confirmed_at=$3, transaction_id=$4, payment_method_id=$5
		WHERE id = $1`,
		pi.ID, pi.Status, pi.ConfirmedAt, pi.TransactionID, pi.PaymentMethodID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentIntent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+intentCols+` FROM payment_intents WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PaymentIntent
	for rows.Next() {
		var pi PaymentIntent
		if err := rows.Scan(&pi.ID, &pi.UserID, &pi.Amount, &pi.Currency, &pi.Status, &pi.CreatedAt, &pi.ConfirmedAt, &pi.TransactionID, &pi.PaymentMethodID); err != nil {
			return nil, err
		}
		out = append(out, &pi)
	}
	return out, rows.Err()
}

func scanIntent(row pgx.Row) (*PaymentIntent, error) {
	var pi PaymentIntent
	err := row.Scan(&pi.ID, &pi.UserID, &pi.Amount, &pi.Currency, &pi.Status, &pi.CreatedAt, &pi.ConfirmedAt, &pi.TransactionID, &pi.PaymentMethodID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pi, nil
}
