package records

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
	"github.com/leanledger/leanledger/internal/platform/db"
)

// Repository encapsulates DB operations for records and their
// variations. Reconciliation runs inside WithTx so the three operation
// sets commit as one unit.
type Repository interface {
	List(ctx context.Context, ledgerID int64) ([]Record, error)
	Get(ctx context.Context, recordID int64) (Record, error)
	Create(ctx context.Context, ledgerID int64, date time.Time, description string) (Record, error)
	Delete(ctx context.Context, recordID int64) error
	ListAccounts(ctx context.Context, ledgerID int64) ([]accounts.Account, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a reconciliation
// transaction.
type TxRepository interface {
	GetRecordForUpdate(ctx context.Context, recordID int64) (Record, error)
	ListAccounts(ctx context.Context, ledgerID int64) ([]accounts.Account, error)
	UpdateRecordFields(ctx context.Context, recordID int64, date time.Time, description string) error
	InsertVariations(ctx context.Context, recordID int64, creates []Variation) error
	UpdateVariation(ctx context.Context, update VariationUpdate) error
	DeleteVariations(ctx context.Context, ids []int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, ledgerID int64) ([]Record, error) {
	rows, err := r.db.Query(ctx, `SELECT id, ledger_id, date, description FROM records WHERE ledger_id=$1 ORDER BY date DESC, id DESC`, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	index := map[int64]int{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.LedgerID, &rec.Date, &rec.Description); err != nil {
			return nil, err
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	varRows, err := r.db.Query(ctx, `SELECT v.id, v.record_id, v.account_id, v.amount
FROM variations v JOIN records rec ON rec.id = v.record_id
WHERE rec.ledger_id=$1 ORDER BY v.id ASC`, ledgerID)
	if err != nil {
		return nil, err
	}
	defer varRows.Close()
	for varRows.Next() {
		v, err := scanVariation(varRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[v.RecordID]; ok {
			out[i].Variations = append(out[i].Variations, v)
		}
	}
	return out, varRows.Err()
}

func (r *repository) Get(ctx context.Context, recordID int64) (Record, error) {
	return getRecord(ctx, r.db, recordID, false)
}

func (r *repository) Create(ctx context.Context, ledgerID int64, date time.Time, description string) (Record, error) {
	rec := Record{LedgerID: ledgerID, Date: date, Description: description}
	err := r.db.QueryRow(ctx, `INSERT INTO records (ledger_id, date, description) VALUES ($1,$2,$3) RETURNING id`,
		ledgerID, date, description).Scan(&rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *repository) Delete(ctx context.Context, recordID int64) error {
	// Variations go with the record via ON DELETE CASCADE.
	cmd, err := r.db.Exec(ctx, `DELETE FROM records WHERE id=$1`, recordID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListAccounts(ctx context.Context, ledgerID int64) ([]accounts.Account, error) {
	return listAccounts(ctx, r.db, ledgerID)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetRecordForUpdate(ctx context.Context, recordID int64) (Record, error) {
	return getRecord(ctx, r.tx, recordID, true)
}

func (r *txRepository) ListAccounts(ctx context.Context, ledgerID int64) ([]accounts.Account, error) {
	return listAccounts(ctx, r.tx, ledgerID)
}

func (r *txRepository) UpdateRecordFields(ctx context.Context, recordID int64, date time.Time, description string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE records SET date=$2, description=$3 WHERE id=$1`, recordID, date, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

func (r *txRepository) InsertVariations(ctx context.Context, recordID int64, creates []Variation) error {
	for _, v := range creates {
		if _, err := r.tx.Exec(ctx, `INSERT INTO variations (record_id, account_id, amount) VALUES ($1,$2,$3)`,
			recordID, v.AccountID, v.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) UpdateVariation(ctx context.Context, update VariationUpdate) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE variations SET account_id=$2, amount=$3 WHERE id=$1`,
		update.ID, update.AccountID, update.Amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

func (r *txRepository) DeleteVariations(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.tx.Exec(ctx, `DELETE FROM variations WHERE id = ANY($1)`, ids)
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getRecord(ctx context.Context, q querier, recordID int64, forUpdate bool) (Record, error) {
	query := `SELECT id, ledger_id, date, description FROM records WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var rec Record
	err := q.QueryRow(ctx, query, recordID).Scan(&rec.ID, &rec.LedgerID, &rec.Date, &rec.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrRecordNotFound
		}
		return Record{}, err
	}
	rows, err := q.Query(ctx, `SELECT id, record_id, account_id, amount FROM variations WHERE record_id=$1 ORDER BY id ASC`, recordID)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return Record{}, err
		}
		rec.Variations = append(rec.Variations, v)
	}
	return rec, rows.Err()
}

func listAccounts(ctx context.Context, q querier, ledgerID int64) ([]accounts.Account, error) {
	rows, err := q.Query(ctx, `SELECT id, ledger_id, name, type, parent_id FROM accounts WHERE ledger_id=$1 ORDER BY id ASC`, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []accounts.Account
	for rows.Next() {
		var acc accounts.Account
		if err := rows.Scan(&acc.ID, &acc.LedgerID, &acc.Name, &acc.Type, &acc.ParentID); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func scanVariation(rows pgx.Rows) (Variation, error) {
	var v Variation
	var amount decimal.Decimal
	if err := rows.Scan(&v.ID, &v.RecordID, &v.AccountID, &amount); err != nil {
		return Variation{}, err
	}
	v.Amount = amount
	return v, nil
}
