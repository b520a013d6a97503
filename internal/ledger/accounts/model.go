package accounts

// AccountType partitions the chart into sources and uses of funds.
// Origin accounts model income, liabilities and equity; Destination
// accounts model assets and expenses.
type AccountType string

const (
	TypeOrigin      AccountType = "O"
	TypeDestination AccountType = "D"
)

// Valid reports whether t is one of the two letter codes.
func (t AccountType) Valid() bool {
	return t == TypeOrigin || t == TypeDestination
}

// Account is a node in a ledger's account forest. A nil ParentID marks
// a root. Leaf accounts hold variations directly; the value of a parent
// account is the sum of its children.
type Account struct {
	ID       int64
	LedgerID int64
	Name     string
	Type     AccountType
	ParentID *int64
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentID == nil
}
