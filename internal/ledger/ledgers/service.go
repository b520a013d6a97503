package ledgers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, userID int64) ([]LedgerView, error) {
	ledgers, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]LedgerView, 0, len(ledgers))
	for _, l := range ledgers {
		views = append(views, LedgerView{ID: l.ID, Name: l.Name, URL: viewURL(l.ID)})
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, ledgerID int64) (LedgerView, error) {
	l, err := s.repo.Get(ctx, ledgerID)
	if err != nil {
		return LedgerView{}, err
	}
	return LedgerView{ID: l.ID, Name: l.Name, URL: viewURL(l.ID)}, nil
}

func (s *Service) Create(ctx context.Context, req CreateLedgerRequest) (LedgerView, error) {
	if err := s.validate.Struct(req); err != nil {
		return LedgerView{}, fmt.Errorf("ledger: invalid ledger: %w", err)
	}
	l, err := s.repo.Create(ctx, Ledger{UserID: req.UserID, Name: req.Name})
	if err != nil {
		return LedgerView{}, err
	}
	return LedgerView{ID: l.ID, Name: l.Name, URL: viewURL(l.ID)}, nil
}

func (s *Service) Rename(ctx context.Context, ledgerID int64, req RenameLedgerRequest) (LedgerView, error) {
	if err := s.validate.Struct(req); err != nil {
		return LedgerView{}, fmt.Errorf("ledger: invalid ledger: %w", err)
	}
	if err := s.repo.Rename(ctx, ledgerID, req.Name); err != nil {
		return LedgerView{}, err
	}
	return s.Get(ctx, ledgerID)
}

func (s *Service) Delete(ctx context.Context, ledgerID int64) error {
	return s.repo.Delete(ctx, ledgerID)
}
