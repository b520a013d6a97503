package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// EventPort publishes record lifecycle events after a successful
// commit. Implementations must tolerate being nil-checked away.
type EventPort interface {
	RecordReconciled(ctx context.Context, event ReconciledEvent) error
}

// CachePort invalidates derived read models (account totals) after a
// write.
type CachePort interface {
	Bump(ctx context.Context) error
}

// ReconciledEvent summarises an applied changeset.
type ReconciledEvent struct {
	LedgerID int64     `json:"ledger_id"`
	RecordID int64     `json:"record_id"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Deleted  int       `json:"deleted"`
	At       time.Time `json:"at"`
}

type Service struct {
	logger   *slog.Logger
	repo     Repository
	validate *validator.Validate
	events   EventPort
	cache    CachePort
	now      func() time.Time
}

func NewService(logger *slog.Logger, repo Repository, events EventPort, cache CachePort) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
		events:   events,
		cache:    cache,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns the ledger's records, newest first, each with its
// balance state.
func (s *Service) List(ctx context.Context, ledgerID int64) ([]RecordSummaryView, error) {
	recs, err := s.repo.List(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	accs, err := s.repo.ListAccounts(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	types := accountTypes(accs)
	out := make([]RecordSummaryView, 0, len(recs))
	for _, rec := range recs {
		balanced, err := IsBalanced(rec.Variations, types)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}
		out = append(out, RecordSummaryView{
			ID:          rec.ID,
			IsBalanced:  balanced,
			Date:        rec.Date.Format(dateLayout),
			Description: rec.Description,
			URL:         recordURL(ledgerID, rec.ID),
		})
	}
	return out, nil
}

// Get returns the record snapshot consumed by the edit view.
func (s *Service) Get(ctx context.Context, ledgerID, recordID int64) (RecordView, error) {
	rec, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return RecordView{}, err
	}
	if rec.LedgerID != ledgerID {
		return RecordView{}, fmt.Errorf("record %d: %w", recordID, shared.ErrWrongLedger)
	}
	accs, err := s.repo.ListAccounts(ctx, ledgerID)
	if err != nil {
		return RecordView{}, err
	}
	return s.buildView(rec, accs)
}

// Create adds an empty record to the ledger.
func (s *Service) Create(ctx context.Context, ledgerID int64, req CreateRecordRequest) (RecordView, error) {
	if err := s.validate.Struct(req); err != nil {
		return RecordView{}, fmt.Errorf("ledger: invalid record: %w", err)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return RecordView{}, err
	}
	rec, err := s.repo.Create(ctx, ledgerID, date, req.Description)
	if err != nil {
		return RecordView{}, err
	}
	return RecordView{
		ID:          rec.ID,
		IsBalanced:  true,
		Date:        rec.Date.Format(dateLayout),
		Description: rec.Description,
		Variations:  VariationGroupsView{Debit: []VariationView{}, Credit: []VariationView{}},
	}, nil
}

// Update applies a submitted full snapshot: the record fields replace
// the stored ones when changed and the variations are reconciled into
// create/update/delete sets, all committed in one transaction.
func (s *Service) Update(ctx context.Context, ledgerID, recordID int64, req UpdateRecordRequest) (RecordView, error) {
	if err := s.validate.Struct(req); err != nil {
		return RecordView{}, fmt.Errorf("ledger: invalid record: %w", err)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return RecordView{}, err
	}

	var applied Changeset
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		rec, err := tx.GetRecordForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		if rec.LedgerID != ledgerID {
			return fmt.Errorf("record %d: %w", recordID, shared.ErrWrongLedger)
		}
		accs, err := tx.ListAccounts(ctx, ledgerID)
		if err != nil {
			return err
		}
		types := accountTypes(accs)
		existing, err := GroupByType(rec.Variations, types)
		if err != nil {
			return err
		}
		changes, err := Reconcile(existing, req.submittedState(), types)
		if err != nil {
			return err
		}
		if !rec.Date.Equal(date) || rec.Description != req.Description {
			if err := tx.UpdateRecordFields(ctx, recordID, date, req.Description); err != nil {
				return err
			}
		}
		if err := tx.InsertVariations(ctx, recordID, changes.Creates); err != nil {
			return err
		}
		for _, update := range changes.Updates {
			if err := tx.UpdateVariation(ctx, update); err != nil {
				return err
			}
		}
		if err := tx.DeleteVariations(ctx, changes.Deletes); err != nil {
			return err
		}
		applied = changes
		return nil
	})
	if err != nil {
		return RecordView{}, err
	}

	// The changeset is committed; cache invalidation and event
	// publication are best-effort and must not fail the request.
	if s.cache != nil && !applied.Empty() {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("totals cache bump", slog.Int64("record_id", recordID), slog.Any("error", err))
		}
	}
	if s.events != nil && !applied.Empty() {
		event := ReconciledEvent{
			LedgerID: ledgerID,
			RecordID: recordID,
			Created:  len(applied.Creates),
			Updated:  len(applied.Updates),
			Deleted:  len(applied.Deletes),
			At:       s.now(),
		}
		if err := s.events.RecordReconciled(ctx, event); err != nil {
			s.logger.Warn("publish record reconciled", slog.Int64("record_id", recordID), slog.Any("error", err))
		}
	}
	return s.Get(ctx, ledgerID, recordID)
}

// Delete removes a record and, by cascade, its variations.
func (s *Service) Delete(ctx context.Context, ledgerID, recordID int64) error {
	rec, err := s.repo.Get(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.LedgerID != ledgerID {
		return fmt.Errorf("record %d: %w", recordID, shared.ErrWrongLedger)
	}
	if err := s.repo.Delete(ctx, recordID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("totals cache bump", slog.Int64("record_id", recordID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) buildView(rec Record, accs []accounts.Account) (RecordView, error) {
	types := accountTypes(accs)
	names := make(map[int64]string, len(accs))
	for _, acc := range accs {
		names[acc.ID] = acc.Name
	}
	grouped, err := GroupByType(rec.Variations, types)
	if err != nil {
		return RecordView{}, err
	}
	balanced, err := IsBalanced(rec.Variations, types)
	if err != nil {
		return RecordView{}, err
	}
	toViews := func(group []Variation) []VariationView {
		views := make([]VariationView, 0, len(group))
		for _, v := range group {
			views = append(views, VariationView{
				ID:          v.ID,
				AccountID:   v.AccountID,
				AccountName: names[v.AccountID],
				AccountURL:  accountURL(rec.LedgerID, v.AccountID),
				Amount:      v.Amount.Abs(),
			})
		}
		return views
	}
	return RecordView{
		ID:          rec.ID,
		IsBalanced:  balanced,
		Date:        rec.Date.Format(dateLayout),
		Description: rec.Description,
		Variations: VariationGroupsView{
			Debit:  toViews(grouped[Debit]),
			Credit: toViews(grouped[Credit]),
		},
	}, nil
}

func accountTypes(accs []accounts.Account) map[int64]accounts.AccountType {
	types := make(map[int64]accounts.AccountType, len(accs))
	for _, acc := range accs {
		types[acc.ID] = acc.Type
	}
	return types
}
