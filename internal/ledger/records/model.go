package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a dated transaction owning a set of variations. A record
// is created empty and populated through reconciliation.
type Record struct {
	ID          int64
	LedgerID    int64
	Date        time.Time
	Description string
	Variations  []Variation
}

// Variation is one signed monetary movement against one account within
// one record. Amount is a scale-2 decimal and must never be zero; its
// debit/credit meaning is never stored, it is derived from the account
// type and the sign (see DeriveType).
type Variation struct {
	ID        int64
	RecordID  int64
	AccountID int64
	Amount    decimal.Decimal
}
