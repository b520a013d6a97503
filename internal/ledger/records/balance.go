package records

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// Grouped holds a record's variations split by derived type. Both keys
// are always present. Within each group the ordering is by absolute
// amount descending, ties broken by ascending id; this ordering is
// part of the wire contract and must not change.
type Grouped map[VariationType][]Variation

// GroupByType derives each variation's type from its account and
// groups the record's variations accordingly.
func GroupByType(variations []Variation, types map[int64]accounts.AccountType) (Grouped, error) {
	grouped := Grouped{Debit: nil, Credit: nil}
	for _, v := range variations {
		accType, ok := types[v.AccountID]
		if !ok {
			return nil, fmt.Errorf("variation %d: account %d: %w", v.ID, v.AccountID, shared.ErrAccountNotFound)
		}
		vt, err := DeriveType(accType, v.Amount)
		if err != nil {
			return nil, fmt.Errorf("variation %d: %w", v.ID, err)
		}
		grouped[vt] = append(grouped[vt], v)
	}
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			ai, aj := group[i].Amount.Abs(), group[j].Amount.Abs()
			if !ai.Equal(aj) {
				return ai.GreaterThan(aj)
			}
			return group[i].ID < group[j].ID
		})
	}
	return grouped, nil
}

// IsBalanced reports whether the debit and credit magnitudes of a
// record net out, using exact decimal comparison. A record with no
// variations is vacuously balanced.
func IsBalanced(variations []Variation, types map[int64]accounts.AccountType) (bool, error) {
	debits, credits := decimal.Zero, decimal.Zero
	for _, v := range variations {
		accType, ok := types[v.AccountID]
		if !ok {
			return false, fmt.Errorf("variation %d: account %d: %w", v.ID, v.AccountID, shared.ErrAccountNotFound)
		}
		vt, err := DeriveType(accType, v.Amount)
		if err != nil {
			return false, fmt.Errorf("variation %d: %w", v.ID, err)
		}
		if vt == Debit {
			debits = debits.Add(v.Amount.Abs())
		} else {
			credits = credits.Add(v.Amount.Abs())
		}
	}
	return debits.Equal(credits), nil
}
