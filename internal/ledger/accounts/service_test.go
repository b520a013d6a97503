package accounts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

type mockRepository struct {
	accounts map[int64]Account
	sums     map[int64]decimal.Decimal
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: map[int64]Account{},
		sums:     map[int64]decimal.Decimal{},
	}
}

func (m *mockRepository) seed(accs ...Account) {
	for _, acc := range accs {
		m.accounts[acc.ID] = acc
		if acc.ID > m.nextID {
			m.nextID = acc.ID
		}
	}
}

func (m *mockRepository) List(_ context.Context, ledgerID int64) ([]Account, error) {
	var out []Account
	for _, acc := range m.accounts {
		if acc.LedgerID == ledgerID {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, accountID int64) (Account, error) {
	acc, ok := m.accounts[accountID]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return acc, nil
}

func (m *mockRepository) LeafSums(_ context.Context, ledgerID int64) (map[int64]decimal.Decimal, error) {
	sums := map[int64]decimal.Decimal{}
	for id, sum := range m.sums {
		if acc, ok := m.accounts[id]; ok && acc.LedgerID == ledgerID {
			sums[id] = sum
		}
	}
	return sums, nil
}

func (m *mockRepository) Create(_ context.Context, acc Account) (Account, error) {
	if acc.ParentID != nil {
		if _, ok := m.accounts[*acc.ParentID]; !ok {
			return Account{}, shared.ErrParentNotFound
		}
	}
	m.nextID++
	acc.ID = m.nextID
	m.accounts[acc.ID] = acc
	return acc, nil
}

func (m *mockRepository) Delete(_ context.Context, accountID int64) error {
	if _, ok := m.accounts[accountID]; !ok {
		return shared.ErrAccountNotFound
	}
	delete(m.accounts, accountID)
	for id, acc := range m.accounts {
		if acc.ParentID != nil && *acc.ParentID == accountID {
			_ = m.Delete(context.Background(), id)
		}
	}
	return nil
}

func newTestService(repo *mockRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, NewCache(nil, 0))
}

func TestServiceListForest(t *testing.T) {
	repo := newMockRepository()
	repo.seed(cashForest()...)
	repo.sums[2] = amt(t, "120.50")
	repo.sums[4] = amt(t, "-30.25")
	repo.sums[5] = amt(t, "30.25")
	svc := newTestService(repo)

	forest, err := svc.List(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, forest.Destination, 1)
	cash := forest.Destination[0]
	assert.Equal(t, "cash", cash.Name)
	assert.True(t, cash.Total.Equal(amt(t, "90.25")))
	require.Len(t, cash.Children, 2)
	assert.Equal(t, "bank one", cash.Children[0].Name)
	assert.Equal(t, "bank two", cash.Children[1].Name)
	assert.Equal(t, "cash / bank two", cash.Children[1].FullName)

	require.Len(t, forest.Origin, 1)
	assert.Equal(t, "groceries", forest.Origin[0].Name)
	assert.True(t, forest.Origin[0].Total.Equal(amt(t, "30.25")))
}

func TestServiceGet(t *testing.T) {
	repo := newMockRepository()
	repo.seed(cashForest()...)
	repo.sums[4] = amt(t, "-30.25")
	svc := newTestService(repo)

	view, err := svc.Get(context.Background(), 7, 4)
	require.NoError(t, err)
	assert.Equal(t, "sub bank two", view.Name)
	assert.Equal(t, "cash / bank two / sub bank two", view.FullName)
	assert.Equal(t, "D", view.Type)
	assert.Equal(t, "/ledger/7/account/4/", view.URL)
	assert.True(t, view.Total.Equal(amt(t, "-30.25")))

	_, err = svc.Get(context.Background(), 8, 4)
	assert.ErrorIs(t, err, shared.ErrWrongLedger)

	_, err = svc.Get(context.Background(), 7, 99)
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
}

func TestServiceCreateRoot(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	view, err := svc.Create(context.Background(), 7, CreateAccountRequest{Name: "salary", Type: "O"})
	require.NoError(t, err)
	assert.Equal(t, "O", view.Type)
	assert.Equal(t, "salary", view.FullName)

	// A root without a type has nothing to inherit from.
	_, err = svc.Create(context.Background(), 7, CreateAccountRequest{Name: "untyped"})
	assert.ErrorIs(t, err, shared.ErrUnknownAccountType)
}

func TestServiceCreateChildInheritsType(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Account{ID: 1, LedgerID: 7, Name: "cash", Type: TypeDestination})
	svc := newTestService(repo)

	view, err := svc.Create(context.Background(), 7, CreateAccountRequest{Name: "wallet", ParentID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "D", view.Type)
	assert.Equal(t, "cash / wallet", view.FullName)

	_, err = svc.Create(context.Background(), 7, CreateAccountRequest{Name: "rent", Type: "O", ParentID: ptr(1)})
	assert.ErrorIs(t, err, shared.ErrTypeMismatch)

	_, err = svc.Create(context.Background(), 7, CreateAccountRequest{Name: "stray", ParentID: ptr(42)})
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
}

func TestServiceCreateChildWrongLedgerParent(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Account{ID: 1, LedgerID: 8, Name: "cash", Type: TypeDestination})
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), 7, CreateAccountRequest{Name: "wallet", ParentID: ptr(1)})
	assert.ErrorIs(t, err, shared.ErrWrongLedger)
}

func TestServiceWritesSurviveCacheFailure(t *testing.T) {
	repo := newMockRepository()
	repo.seed(cashForest()...)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, NewCache(client, time.Minute))

	mr.Close() // every Bump now fails

	view, err := svc.Create(context.Background(), 7, CreateAccountRequest{Name: "savings", Type: "D"})
	require.NoError(t, err, "the row is committed; invalidation is best-effort")
	assert.Equal(t, "savings", view.Name)

	require.NoError(t, svc.Delete(context.Background(), 7, view.ID))
	assert.NotContains(t, repo.accounts, view.ID)
}

func TestServiceDelete(t *testing.T) {
	repo := newMockRepository()
	repo.seed(cashForest()...)
	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), 7, 3))
	assert.NotContains(t, repo.accounts, int64(3))
	assert.NotContains(t, repo.accounts, int64(4), "subtree removed with the parent")

	err := svc.Delete(context.Background(), 8, 1)
	assert.ErrorIs(t, err, shared.ErrWrongLedger)
}
