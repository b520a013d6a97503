package ledgers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// Repository encapsulates DB operations for ledgers.
type Repository interface {
	List(ctx context.Context, userID int64) ([]Ledger, error)
	Get(ctx context.Context, ledgerID int64) (Ledger, error)
	Create(ctx context.Context, ledger Ledger) (Ledger, error)
	Rename(ctx context.Context, ledgerID int64, name string) error
	Delete(ctx context.Context, ledgerID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID int64) ([]Ledger, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name FROM ledgers WHERE user_id=$1 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ledger
	for rows.Next() {
		var l Ledger
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, ledgerID int64) (Ledger, error) {
	var l Ledger
	err := r.db.QueryRow(ctx, `SELECT id, user_id, name FROM ledgers WHERE id=$1`, ledgerID).
		Scan(&l.ID, &l.UserID, &l.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ledger{}, shared.ErrLedgerNotFound
		}
		return Ledger{}, err
	}
	return l, nil
}

func (r *repository) Create(ctx context.Context, ledger Ledger) (Ledger, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO ledgers (user_id, name) VALUES ($1,$2) RETURNING id`,
		ledger.UserID, ledger.Name).Scan(&ledger.ID)
	if err != nil {
		return Ledger{}, err
	}
	return ledger, nil
}

func (r *repository) Rename(ctx context.Context, ledgerID int64, name string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE ledgers SET name=$2 WHERE id=$1`, ledgerID, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrLedgerNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ledgerID int64) error {
	// Accounts, records and variations go via ON DELETE CASCADE.
	cmd, err := r.db.Exec(ctx, `DELETE FROM ledgers WHERE id=$1`, ledgerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrLedgerNotFound
	}
	return nil
}
