package records

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// The canonical scenario: an expense record of 100 cash split over two
// expense accounts, then extended with a 50 bank credit.
func existingExpenseRecord() Grouped {
	return Grouped{
		Debit: []Variation{
			{ID: 3, AccountID: acctExpTwo, Amount: amt("-60.00")},
			{ID: 2, AccountID: acctExpOne, Amount: amt("-40.00")},
		},
		Credit: []Variation{
			{ID: 1, AccountID: acctCash, Amount: amt("-100.00")},
		},
	}
}

func TestReconcileCreateOnly(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 2, AccountID: acctExpOne, Amount: amt("40.00")},
			{ID: 3, AccountID: acctExpTwo, Amount: amt("60.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
			{ID: 4, AccountID: acctBank, Amount: amt("50.00")},
		},
	}

	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.NoError(t, err)

	assert.Empty(t, cs.Updates)
	assert.Empty(t, cs.Deletes)
	require.Len(t, cs.Creates, 1)
	created := cs.Creates[0]
	assert.Equal(t, acctBank, created.AccountID)
	// Bank is a Destination account; a credit decreases it.
	assert.True(t, created.Amount.Equal(amt("-50.00")), "got %s", created.Amount)
}

func TestReconcileUnchangedSnapshotIsNoop(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 2, AccountID: acctExpOne, Amount: amt("40.00")},
			{ID: 3, AccountID: acctExpTwo, Amount: amt("60.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
		},
	}
	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.NoError(t, err)
	assert.True(t, cs.Empty())
}

func TestReconcileOmittedIDIsDeleted(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 3, AccountID: acctExpTwo, Amount: amt("60.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
		},
	}
	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.NoError(t, err)
	assert.Empty(t, cs.Creates)
	assert.Empty(t, cs.Updates)
	assert.Equal(t, []int64{2}, cs.Deletes)
}

func TestReconcileAmountChangeIsUpdate(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 2, AccountID: acctExpOne, Amount: amt("45.00")},
			{ID: 3, AccountID: acctExpTwo, Amount: amt("60.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
		},
	}
	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.NoError(t, err)
	assert.Empty(t, cs.Creates)
	assert.Empty(t, cs.Deletes)
	require.Len(t, cs.Updates, 1)
	assert.Equal(t, int64(2), cs.Updates[0].ID)
	assert.True(t, cs.Updates[0].Amount.Equal(amt("-45.00")))
}

// Reassigning a variation to an account of the other type must flip
// the sign: the recomputation depends on the new account's type.
func TestReconcileAccountReassignmentRecomputesSign(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 2, AccountID: acctBank, Amount: amt("40.00")},
			{ID: 3, AccountID: acctExpTwo, Amount: amt("60.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
		},
	}
	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.NoError(t, err)
	require.Len(t, cs.Updates, 1)
	update := cs.Updates[0]
	assert.Equal(t, int64(2), update.ID)
	assert.Equal(t, acctBank, update.AccountID)
	// Debit on a Destination account is an increase: +40.
	assert.True(t, update.Amount.Equal(amt("40.00")), "got %s", update.Amount)
}

// Id matching is scoped per group: a debit id that only exists among
// the credits is a create, and the untouched credit survives.
func TestReconcileIDMatchingNeverCrossesGroups(t *testing.T) {
	existing := Grouped{
		Debit:  nil,
		Credit: []Variation{{ID: 1, AccountID: acctCash, Amount: amt("-100.00")}},
	}
	submitted := SubmittedState{
		Debit: []SubmittedVariation{
			{ID: 1, AccountID: acctExpOne, Amount: amt("100.00")},
		},
		Credit: []SubmittedVariation{
			{ID: 1, AccountID: acctCash, Amount: amt("100.00")},
		},
	}
	cs, err := Reconcile(existing, submitted, testTypes())
	require.NoError(t, err)
	require.Len(t, cs.Creates, 1)
	assert.Equal(t, acctExpOne, cs.Creates[0].AccountID)
	assert.True(t, cs.Creates[0].Amount.Equal(amt("-100.00")))
	assert.Empty(t, cs.Updates)
	assert.Empty(t, cs.Deletes)
}

func TestReconcileDeleteScopedToGroup(t *testing.T) {
	// id=2 exists in both groups; omitting it from the debits only
	// deletes the debit occurrence.
	existing := Grouped{
		Debit: []Variation{
			{ID: 2, AccountID: acctExpOne, Amount: amt("-40.00")},
		},
		Credit: []Variation{
			{ID: 2, AccountID: acctCash, Amount: amt("-40.00")},
		},
	}
	submitted := SubmittedState{
		Credit: []SubmittedVariation{
			{ID: 2, AccountID: acctCash, Amount: amt("40.00")},
		},
	}
	cs, err := Reconcile(existing, submitted, testTypes())
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, cs.Deletes)
	assert.Empty(t, cs.Updates)
	assert.Empty(t, cs.Creates)
}

func TestReconcileRejectsZeroAmount(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{{ID: 5, AccountID: acctExpOne, Amount: decimal.Zero}},
	}
	_, err := Reconcile(Grouped{}, submitted, testTypes())
	require.ErrorIs(t, err, shared.ErrZeroAmount)
}

func TestReconcileRejectsNegativeMagnitude(t *testing.T) {
	submitted := SubmittedState{
		Credit: []SubmittedVariation{{ID: 5, AccountID: acctCash, Amount: amt("-10.00")}},
	}
	_, err := Reconcile(Grouped{}, submitted, testTypes())
	require.ErrorIs(t, err, shared.ErrNonPositiveAmount)
}

func TestReconcileRejectsUnknownAccount(t *testing.T) {
	submitted := SubmittedState{
		Debit: []SubmittedVariation{{ID: 5, AccountID: acctMissing, Amount: amt("10.00")}},
	}
	cs, err := Reconcile(existingExpenseRecord(), submitted, testTypes())
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
	assert.True(t, cs.Empty(), "no partial changeset on validation failure")
}
