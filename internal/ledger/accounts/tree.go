package accounts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// Tree indexes one ledger's account forest for total aggregation and
// breadcrumb lookups. Accounts are kept in a flat arena with a
// parent-id index; the structure is validated acyclic at construction.
type Tree struct {
	ledgerID int64
	nodes    map[int64]Account
	children map[int64][]int64
	roots    []int64
	leafSums map[int64]decimal.Decimal
}

// NewTree builds a tree over accs, which must all belong to ledgerID.
// leafSums carries the signed sum of stored variation amounts per
// account; accounts without variations may be absent from it.
//
// Construction enforces the invariants the entities alone cannot:
// parent references resolve within the same ledger, children share
// their parent's type, and parent chains terminate at a root.
func NewTree(ledgerID int64, accs []Account, leafSums map[int64]decimal.Decimal) (*Tree, error) {
	t := &Tree{
		ledgerID: ledgerID,
		nodes:    make(map[int64]Account, len(accs)),
		children: make(map[int64][]int64),
		leafSums: make(map[int64]decimal.Decimal, len(leafSums)),
	}
	for _, acc := range accs {
		if acc.LedgerID != ledgerID {
			return nil, fmt.Errorf("account %d: %w", acc.ID, shared.ErrWrongLedger)
		}
		if !acc.Type.Valid() {
			return nil, fmt.Errorf("account %d: %w", acc.ID, shared.ErrUnknownAccountType)
		}
		if _, dup := t.nodes[acc.ID]; dup {
			return nil, fmt.Errorf("ledger: duplicate account id %d", acc.ID)
		}
		t.nodes[acc.ID] = acc
	}
	for _, acc := range t.nodes {
		if acc.ParentID == nil {
			t.roots = append(t.roots, acc.ID)
			continue
		}
		parent, ok := t.nodes[*acc.ParentID]
		if !ok {
			return nil, fmt.Errorf("account %d: %w", acc.ID, shared.ErrParentNotFound)
		}
		if parent.Type != acc.Type {
			return nil, fmt.Errorf("account %d under %d: %w", acc.ID, parent.ID, shared.ErrTypeMismatch)
		}
		t.children[parent.ID] = append(t.children[parent.ID], acc.ID)
	}
	for id := range t.nodes {
		if err := t.checkAcyclic(id); err != nil {
			return nil, err
		}
	}
	for id, sum := range leafSums {
		if _, ok := t.nodes[id]; !ok {
			return nil, fmt.Errorf("leaf sum for account %d: %w", id, shared.ErrAccountNotFound)
		}
		t.leafSums[id] = sum
	}
	coll := collate.New(language.Und, collate.IgnoreCase)
	byName := func(ids []int64) {
		sort.Slice(ids, func(i, j int) bool {
			a, b := t.nodes[ids[i]], t.nodes[ids[j]]
			if c := coll.CompareString(a.Name, b.Name); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		})
	}
	byName(t.roots)
	for _, ids := range t.children {
		byName(ids)
	}
	return t, nil
}

func (t *Tree) checkAcyclic(start int64) error {
	seen := map[int64]bool{}
	for id := start; ; {
		if seen[id] {
			return fmt.Errorf("account %d: %w", start, shared.ErrParentCycle)
		}
		seen[id] = true
		node := t.nodes[id]
		if node.ParentID == nil {
			return nil
		}
		id = *node.ParentID
	}
}

// Account returns the account with the given id.
func (t *Tree) Account(id int64) (Account, error) {
	acc, ok := t.nodes[id]
	if !ok {
		return Account{}, fmt.Errorf("account %d: %w", id, shared.ErrAccountNotFound)
	}
	return acc, nil
}

// Children returns the ids of an account's direct children, name-ordered.
func (t *Tree) Children(id int64) []int64 {
	return t.children[id]
}

// Roots returns the root accounts of one type, name-ordered.
func (t *Tree) Roots(typ AccountType) []Account {
	var out []Account
	for _, id := range t.roots {
		if acc := t.nodes[id]; acc.Type == typ {
			out = append(out, acc)
		}
	}
	return out
}

// Types returns the account type per account id for the whole ledger.
func (t *Tree) Types() map[int64]AccountType {
	out := make(map[int64]AccountType, len(t.nodes))
	for id, acc := range t.nodes {
		out[id] = acc.Type
	}
	return out
}

// Total computes the displayed total of an account: the recursive sum
// of its children when it has any, otherwise the signed sum of its own
// variations (zero when it has none). Totals are sums of stored signed
// amounts, not of debit/credit magnitudes.
func (t *Tree) Total(id int64) (decimal.Decimal, error) {
	if _, ok := t.nodes[id]; !ok {
		return decimal.Zero, fmt.Errorf("account %d: %w", id, shared.ErrAccountNotFound)
	}
	return t.total(id), nil
}

func (t *Tree) total(id int64) decimal.Decimal {
	kids := t.children[id]
	if len(kids) == 0 {
		return t.leafSums[id]
	}
	sum := decimal.Zero
	for _, kid := range kids {
		sum = sum.Add(t.total(kid))
	}
	return sum
}

// Breadcrumbs returns the root-to-self path of an account, length >= 1.
func (t *Tree) Breadcrumbs(id int64) ([]Account, error) {
	acc, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, shared.ErrAccountNotFound)
	}
	var path []Account
	for {
		path = append([]Account{acc}, path...)
		if acc.ParentID == nil {
			return path, nil
		}
		acc = t.nodes[*acc.ParentID]
	}
}

// FullName joins the breadcrumb names with " / ".
func (t *Tree) FullName(id int64) (string, error) {
	path, err := t.Breadcrumbs(id)
	if err != nil {
		return "", err
	}
	names := make([]string, len(path))
	for i, acc := range path {
		names[i] = acc.Name
	}
	return strings.Join(names, " / "), nil
}
