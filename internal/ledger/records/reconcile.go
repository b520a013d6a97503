package records

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// SubmittedVariation is one desired row of a client-submitted record
// snapshot. Amount is the unsigned magnitude as typed by the user; the
// stored sign is recomputed from the account type and the group the
// row was submitted under.
type SubmittedVariation struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
}

// SubmittedState is the full desired state of a record's variations,
// keyed by the group each row was submitted under.
type SubmittedState map[VariationType][]SubmittedVariation

// VariationUpdate carries the post-reconciliation field values of an
// existing variation whose account or amount changed.
type VariationUpdate struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
}

// Changeset is the outcome of reconciling a submitted snapshot against
// the persisted variations: three disjoint operation sets the storage
// layer must apply atomically, creates first, then updates, then
// deletes.
type Changeset struct {
	Creates []Variation
	Updates []VariationUpdate
	Deletes []int64
}

// Empty reports whether the changeset carries no operations.
func (c Changeset) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

var groupOrder = []VariationType{Debit, Credit}

// Reconcile merges a submitted snapshot against the existing grouped
// variations. Matching by id is scoped to a single group: the client
// numbers new rows max+1 within its group, so a "new" debit id may
// collide with a real credit id and must still be treated as a create.
//
// Per group: submitted ids unknown to the group become creates with
// the signed amount computed from the target account's type; known ids
// become updates when the account or the recomputed amount differs
// (account reassignment is resolved before the sign recomputation);
// existing ids missing from the submission become deletes.
//
// Any invalid row — non-positive magnitude or unknown account — fails
// the whole reconciliation; no partial changeset is returned.
func Reconcile(existing Grouped, submitted SubmittedState, types map[int64]accounts.AccountType) (Changeset, error) {
	var cs Changeset
	for _, group := range groupOrder {
		current := existing[group]
		desired := submitted[group]

		byID := make(map[int64]Variation, len(current))
		for _, v := range current {
			byID[v.ID] = v
		}
		submittedIDs := make(map[int64]bool, len(desired))

		for _, in := range desired {
			submittedIDs[in.ID] = true
			if in.Amount.IsZero() {
				return Changeset{}, fmt.Errorf("%s variation %d: %w", group, in.ID, shared.ErrZeroAmount)
			}
			if in.Amount.IsNegative() {
				return Changeset{}, fmt.Errorf("%s variation %d: %w", group, in.ID, shared.ErrNonPositiveAmount)
			}
			accType, ok := types[in.AccountID]
			if !ok {
				return Changeset{}, fmt.Errorf("%s variation %d: account %d: %w", group, in.ID, in.AccountID, shared.ErrAccountNotFound)
			}
			signed := SignedAmount(in.Amount, accType, group)

			prev, exists := byID[in.ID]
			if !exists {
				cs.Creates = append(cs.Creates, Variation{AccountID: in.AccountID, Amount: signed})
				continue
			}
			if prev.AccountID != in.AccountID || !prev.Amount.Equal(signed) {
				cs.Updates = append(cs.Updates, VariationUpdate{ID: in.ID, AccountID: in.AccountID, Amount: signed})
			}
		}

		for _, v := range current {
			if !submittedIDs[v.ID] {
				cs.Deletes = append(cs.Deletes, v.ID)
			}
		}
	}
	return cs, nil
}
