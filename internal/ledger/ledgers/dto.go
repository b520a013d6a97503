package ledgers

import "fmt"

// LedgerView is one ledger row.
type LedgerView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateLedgerRequest creates a new ledger for a user.
type CreateLedgerRequest struct {
	Name   string `json:"name" validate:"required,max=64"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
}

// RenameLedgerRequest replaces a ledger's name.
type RenameLedgerRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func viewURL(ledgerID int64) string {
	return fmt.Sprintf("/ledger/%d/", ledgerID)
}
