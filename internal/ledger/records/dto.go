package records

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are emitted as bare JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const dateLayout = "2006-01-02"

// VariationView is one row of a record snapshot. Amount is unsigned;
// the sign is implied by which group the row appears under.
type VariationView struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountURL  string          `json:"account_url"`
	Amount      decimal.Decimal `json:"amount"`
}

// VariationGroupsView splits snapshot rows by variation type, each
// list in the contract ordering of GroupByType.
type VariationGroupsView struct {
	Debit  []VariationView `json:"debit"`
	Credit []VariationView `json:"credit"`
}

// RecordView is the JSON snapshot of a record.
type RecordView struct {
	ID          int64               `json:"id"`
	IsBalanced  bool                `json:"is_balanced"`
	Date        string              `json:"date"`
	Description string              `json:"description"`
	Variations  VariationGroupsView `json:"variations"`
}

// RecordSummaryView is one row of a ledger's record listing.
type RecordSummaryView struct {
	ID          int64  `json:"id"`
	IsBalanced  bool   `json:"is_balanced"`
	Date        string `json:"date"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// CreateRecordRequest creates an empty record; variations arrive later
// through reconciliation.
type CreateRecordRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"max=128"`
}

// VariationInput is one desired row of an update payload. The id is
// client-assigned: ids unknown to the row's group mark new rows.
type VariationInput struct {
	ID        int64           `json:"id" validate:"gte=0"`
	AccountID int64           `json:"account_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount"`
}

// VariationGroupsInput mirrors VariationGroupsView on the write side.
type VariationGroupsInput struct {
	Debit  []VariationInput `json:"debit" validate:"dive"`
	Credit []VariationInput `json:"credit" validate:"dive"`
}

// UpdateRecordRequest is the full submitted snapshot consumed by the
// reconciler, same shape as the read snapshot.
type UpdateRecordRequest struct {
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Description string               `json:"description" validate:"max=128"`
	Variations  VariationGroupsInput `json:"variations"`
}

func (r UpdateRecordRequest) submittedState() SubmittedState {
	state := SubmittedState{}
	for group, inputs := range map[VariationType][]VariationInput{
		Debit:  r.Variations.Debit,
		Credit: r.Variations.Credit,
	} {
		for _, in := range inputs {
			state[group] = append(state[group], SubmittedVariation{
				ID:        in.ID,
				AccountID: in.AccountID,
				Amount:    in.Amount,
			})
		}
	}
	return state
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("ledger: parse date: %w", err)
	}
	return date, nil
}

func recordURL(ledgerID, recordID int64) string {
	return fmt.Sprintf("/ledger/%d/record/%d/", ledgerID, recordID)
}

func accountURL(ledgerID, accountID int64) string {
	return fmt.Sprintf("/ledger/%d/account/%d/", ledgerID, accountID)
}
