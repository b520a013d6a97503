package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// Repository encapsulates DB operations for accounts.
type Repository interface {
	List(ctx context.Context, ledgerID int64) ([]Account, error)
	Get(ctx context.Context, accountID int64) (Account, error)
	LeafSums(ctx context.Context, ledgerID int64) (map[int64]decimal.Decimal, error)
	Create(ctx context.Context, acc Account) (Account, error)
	Delete(ctx context.Context, accountID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, ledgerID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, ledger_id, name, type, parent_id FROM accounts WHERE ledger_id=$1 ORDER BY id ASC`, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.ID, &acc.LedgerID, &acc.Name, &acc.Type, &acc.ParentID); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, accountID int64) (Account, error) {
	var acc Account
	err := r.db.QueryRow(ctx, `SELECT id, ledger_id, name, type, parent_id FROM accounts WHERE id=$1`, accountID).
		Scan(&acc.ID, &acc.LedgerID, &acc.Name, &acc.Type, &acc.ParentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

// LeafSums returns the signed variation sum per account holding
// variations directly.
func (r *repository) LeafSums(ctx context.Context, ledgerID int64) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `SELECT v.account_id, COALESCE(SUM(v.amount), 0)
FROM variations v JOIN accounts a ON a.id = v.account_id
WHERE a.ledger_id=$1 GROUP BY v.account_id`, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sums := map[int64]decimal.Decimal{}
	for rows.Next() {
		var id int64
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}

func (r *repository) Create(ctx context.Context, acc Account) (Account, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO accounts (ledger_id, name, type, parent_id) VALUES ($1,$2,$3,$4) RETURNING id`,
		acc.LedgerID, acc.Name, acc.Type, acc.ParentID).Scan(&acc.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Account{}, shared.ErrParentNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

func (r *repository) Delete(ctx context.Context, accountID int64) error {
	// Children and their variations go via ON DELETE CASCADE.
	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}
