package records

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// VariationType is the economic meaning of a movement under the
// double-entry convention.
type VariationType string

const (
	Debit  VariationType = "debit"
	Credit VariationType = "credit"
)

// Valid reports whether t is debit or credit.
func (t VariationType) Valid() bool {
	return t == Debit || t == Credit
}

// DeriveType maps a signed amount on an account to its debit/credit
// meaning. An increase on an Origin account is a Credit, a decrease a
// Debit; an increase on a Destination account is a Debit, a decrease a
// Credit. There is no fifth case: a zero amount has no direction and
// is rejected.
func DeriveType(accountType accounts.AccountType, amount decimal.Decimal) (VariationType, error) {
	if amount.IsZero() {
		return "", shared.ErrZeroAmount
	}
	increase := amount.IsPositive()
	switch accountType {
	case accounts.TypeOrigin:
		if increase {
			return Credit, nil
		}
		return Debit, nil
	case accounts.TypeDestination:
		if increase {
			return Debit, nil
		}
		return Credit, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownAccountType, accountType)
	}
}

// IsIncrease is the inverse predicate of DeriveType: a Debit increases
// a Destination account, a Credit increases an Origin account.
func IsIncrease(accountType accounts.AccountType, variationType VariationType) bool {
	switch accountType {
	case accounts.TypeDestination:
		return variationType == Debit
	case accounts.TypeOrigin:
		return variationType == Credit
	default:
		return false
	}
}

// SignedAmount converts an unsigned magnitude back to the stored
// signed amount for the given account and variation types.
func SignedAmount(magnitude decimal.Decimal, accountType accounts.AccountType, variationType VariationType) decimal.Decimal {
	if IsIncrease(accountType, variationType) {
		return magnitude
	}
	return magnitude.Neg()
}
