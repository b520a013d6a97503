package shared

import "errors"

var (
	// ErrZeroAmount indicates a variation amount of exactly zero.
	ErrZeroAmount = errors.New("ledger: variation amount cannot be zero")
	// ErrNonPositiveAmount indicates a submitted magnitude that is not > 0.
	ErrNonPositiveAmount = errors.New("ledger: submitted amount must be positive")
	// ErrUnknownAccountType indicates an account type outside O/D.
	ErrUnknownAccountType = errors.New("ledger: unknown account type")
	// ErrUnknownVariationType indicates a variation type outside debit/credit.
	ErrUnknownVariationType = errors.New("ledger: unknown variation type")
	// ErrAccountNotFound indicates a missing account reference.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrRecordNotFound indicates a missing record.
	ErrRecordNotFound = errors.New("ledger: record not found")
	// ErrLedgerNotFound indicates a missing ledger.
	ErrLedgerNotFound = errors.New("ledger: ledger not found")
	// ErrWrongLedger indicates an entity accessed through a ledger it does not belong to.
	ErrWrongLedger = errors.New("ledger: entity belongs to another ledger")
	// ErrTypeMismatch indicates a child account whose type differs from its parent.
	ErrTypeMismatch = errors.New("ledger: child account must share its parent's type")
	// ErrParentCycle indicates a parent chain that loops back on itself.
	ErrParentCycle = errors.New("ledger: account parent chain contains a cycle")
	// ErrParentNotFound indicates a parent reference outside the ledger.
	ErrParentNotFound = errors.New("ledger: parent account not found")
)
