package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/records"
)

// BalanceAuditJob walks ledgers and reports records whose variations
// do not net out. An unbalanced record is valid data, not an error, so
// the job only logs findings; it exists to surface drift that the edit
// UI's warning was ignored on.
type BalanceAuditJob struct {
	pool   *pgxpool.Pool
	repo   records.Repository
	logger *slog.Logger
}

// NewBalanceAuditJob initialises the audit handler.
func NewBalanceAuditJob(pool *pgxpool.Pool, logger *slog.Logger) *BalanceAuditJob {
	return &BalanceAuditJob{pool: pool, repo: records.NewRepository(pool), logger: logger}
}

// Handle executes one audit task.
func (j *BalanceAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.pool == nil {
		return errors.New("balance audit: handler not configured")
	}
	var payload BalanceAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	ledgerIDs, err := j.ledgerIDs(ctx, payload.LedgerID)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, ledgerID := range ledgerIDs {
		group.Go(func() error {
			return j.auditLedger(ctx, ledgerID)
		})
	}
	return group.Wait()
}

func (j *BalanceAuditJob) ledgerIDs(ctx context.Context, only int64) ([]int64, error) {
	if only != 0 {
		return []int64{only}, nil
	}
	rows, err := j.pool.Query(ctx, `SELECT id FROM ledgers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *BalanceAuditJob) auditLedger(ctx context.Context, ledgerID int64) error {
	recs, err := j.repo.List(ctx, ledgerID)
	if err != nil {
		return err
	}
	accs, err := j.repo.ListAccounts(ctx, ledgerID)
	if err != nil {
		return err
	}
	typeIndex := make(map[int64]accounts.AccountType, len(accs))
	for _, acc := range accs {
		typeIndex[acc.ID] = acc.Type
	}
	unbalanced := 0
	for _, rec := range recs {
		ok, err := records.IsBalanced(rec.Variations, typeIndex)
		if err != nil {
			return err
		}
		if !ok {
			unbalanced++
			j.logger.Warn("unbalanced record",
				slog.Int64("ledger_id", ledgerID),
				slog.Int64("record_id", rec.ID),
				slog.String("date", rec.Date.Format("2006-01-02")))
		}
	}
	j.logger.Info("balance audit finished",
		slog.Int64("ledger_id", ledgerID),
		slog.Int("records", len(recs)),
		slog.Int("unbalanced", unbalanced))
	return nil
}
