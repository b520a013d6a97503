package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

type Service struct {
	logger   *slog.Logger
	repo     Repository
	cache    *Cache
	validate *validator.Validate
}

func NewService(logger *slog.Logger, repo Repository, cache *Cache) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, cache: cache, validate: validator.New()}
}

// bumpCache invalidates the forest cache after a write. The write has
// already committed, so a failed bump is logged rather than surfaced;
// stale entries age out via TTL.
func (s *Service) bumpCache(ctx context.Context, accountID int64) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("forest cache bump", slog.Int64("account_id", accountID), slog.Any("error", err))
	}
}

// List returns the ledger's destination and origin root forests with
// hierarchical totals, served from the versioned cache when warm.
func (s *Service) List(ctx context.Context, ledgerID int64) (AccountForestView, error) {
	key, err := s.cache.BuildKey(ctx, "ledger", "accounts", strconv.FormatInt(ledgerID, 10))
	if err != nil {
		return AccountForestView{}, err
	}
	var view AccountForestView
	err = s.cache.FetchJSON(ctx, key, &view, func(ctx context.Context) (any, error) {
		return s.buildForest(ctx, ledgerID)
	})
	return view, err
}

// Get returns one account's summary with its hierarchical total.
func (s *Service) Get(ctx context.Context, ledgerID, accountID int64) (AccountView, error) {
	acc, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return AccountView{}, err
	}
	if acc.LedgerID != ledgerID {
		return AccountView{}, fmt.Errorf("account %d: %w", accountID, shared.ErrWrongLedger)
	}
	tree, err := s.buildTree(ctx, ledgerID)
	if err != nil {
		return AccountView{}, err
	}
	return s.view(tree, ledgerID, accountID)
}

// Create adds an account. A child inherits its parent's type; when the
// request names a conflicting type the creation fails rather than
// silently accepting the mismatch.
func (s *Service) Create(ctx context.Context, ledgerID int64, req CreateAccountRequest) (AccountView, error) {
	if err := s.validate.Struct(req); err != nil {
		return AccountView{}, fmt.Errorf("ledger: invalid account: %w", err)
	}
	acc := Account{LedgerID: ledgerID, Name: req.Name, Type: AccountType(req.Type), ParentID: req.ParentID}
	if req.ParentID != nil {
		parent, err := s.repo.Get(ctx, *req.ParentID)
		if err != nil {
			return AccountView{}, err
		}
		if parent.LedgerID != ledgerID {
			return AccountView{}, fmt.Errorf("parent %d: %w", parent.ID, shared.ErrWrongLedger)
		}
		if req.Type != "" && AccountType(req.Type) != parent.Type {
			return AccountView{}, fmt.Errorf("parent %d: %w", parent.ID, shared.ErrTypeMismatch)
		}
		acc.Type = parent.Type
	} else if !acc.Type.Valid() {
		return AccountView{}, shared.ErrUnknownAccountType
	}
	created, err := s.repo.Create(ctx, acc)
	if err != nil {
		return AccountView{}, err
	}
	s.bumpCache(ctx, created.ID)
	tree, err := s.buildTree(ctx, ledgerID)
	if err != nil {
		return AccountView{}, err
	}
	return s.view(tree, ledgerID, created.ID)
}

// Delete removes an account and, by cascade, its subtree and their
// variations.
func (s *Service) Delete(ctx context.Context, ledgerID, accountID int64) error {
	acc, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if acc.LedgerID != ledgerID {
		return fmt.Errorf("account %d: %w", accountID, shared.ErrWrongLedger)
	}
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.bumpCache(ctx, accountID)
	return nil
}

func (s *Service) buildTree(ctx context.Context, ledgerID int64) (*Tree, error) {
	accs, err := s.repo.List(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	sums, err := s.repo.LeafSums(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	return NewTree(ledgerID, accs, sums)
}

func (s *Service) buildForest(ctx context.Context, ledgerID int64) (AccountForestView, error) {
	tree, err := s.buildTree(ctx, ledgerID)
	if err != nil {
		return AccountForestView{}, err
	}
	forest := func(typ AccountType) ([]AccountNodeView, error) {
		var nodes []AccountNodeView
		for _, root := range tree.Roots(typ) {
			node, err := s.node(tree, ledgerID, root.ID)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		return nodes, nil
	}
	dst, err := forest(TypeDestination)
	if err != nil {
		return AccountForestView{}, err
	}
	org, err := forest(TypeOrigin)
	if err != nil {
		return AccountForestView{}, err
	}
	return AccountForestView{Destination: dst, Origin: org}, nil
}

func (s *Service) node(tree *Tree, ledgerID, accountID int64) (AccountNodeView, error) {
	view, err := s.view(tree, ledgerID, accountID)
	if err != nil {
		return AccountNodeView{}, err
	}
	node := AccountNodeView{AccountView: view}
	for _, childID := range tree.Children(accountID) {
		child, err := s.node(tree, ledgerID, childID)
		if err != nil {
			return AccountNodeView{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (s *Service) view(tree *Tree, ledgerID, accountID int64) (AccountView, error) {
	acc, err := tree.Account(accountID)
	if err != nil {
		return AccountView{}, err
	}
	fullName, err := tree.FullName(accountID)
	if err != nil {
		return AccountView{}, err
	}
	total, err := tree.Total(accountID)
	if err != nil {
		return AccountView{}, err
	}
	return AccountView{
		ID:       acc.ID,
		Name:     acc.Name,
		FullName: fullName,
		Type:     string(acc.Type),
		URL:      viewURL(ledgerID, acc.ID),
		Total:    total,
	}, nil
}
