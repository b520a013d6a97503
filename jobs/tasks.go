package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalanceAudit scans a user's ledgers for unbalanced records.
	TaskBalanceAudit = "ledger:balance_audit"
)

// BalanceAuditPayload selects what the audit covers. A zero LedgerID
// means every ledger.
type BalanceAuditPayload struct {
	LedgerID int64 `json:"ledger_id"`
}

// NewBalanceAuditTask constructs an Asynq task.
func NewBalanceAuditTask(payload BalanceAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceAudit, data), nil
}
