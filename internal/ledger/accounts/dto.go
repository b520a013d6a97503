package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountView is the summary of one account.
type AccountView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	FullName string          `json:"full_name"`
	Type     string          `json:"type"`
	URL      string          `json:"url"`
	Total    decimal.Decimal `json:"total"`
}

// AccountNodeView is an account with its subtree, used by the grouped
// listing. Children appear in collated name order.
type AccountNodeView struct {
	AccountView
	Children []AccountNodeView `json:"children,omitempty"`
}

// AccountForestView groups the root forests of a ledger by type.
type AccountForestView struct {
	Destination []AccountNodeView `json:"destination"`
	Origin      []AccountNodeView `json:"origin"`
}

// CreateAccountRequest creates a root account (Type required) or a
// child account (Type inherited from, and checked against, the parent).
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Type     string `json:"type" validate:"omitempty,oneof=O D"`
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

func viewURL(ledgerID, accountID int64) string {
	return fmt.Sprintf("/ledger/%d/account/%d/", ledgerID, accountID)
}
