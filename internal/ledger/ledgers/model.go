package ledgers

// Ledger is the root aggregate: it owns a forest of accounts and a set
// of records, both removed with it. UserID is carried as data only;
// authentication lives outside this service.
type Ledger struct {
	ID     int64
	UserID int64
	Name   string
}
