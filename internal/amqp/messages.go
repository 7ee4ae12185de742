package amqp

import (
	"encoding/json"
	"time"
)

// PlanExportMessage carries a computed payoff plan to the export worker.
// Plans are ephemeral (recomputed per request, never stored), so the message
// is self-contained rather than an ID the worker would have to look up.
type PlanExportMessage struct {
	Strategy           string           `json:"strategy"`
	TotalMonths        int              `json:"total_months"`
	TotalInterestCents int64            `json:"total_interest_cents"`
	InterestSavedCents int64            `json:"interest_saved_cents"`
	Items              []PlanExportItem `json:"items"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// PlanExportItem is one debt's line in the exported schedule.
type PlanExportItem struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	BalanceCents  int64  `json:"balance_cents"`
	PaymentCents  int64  `json:"payment_cents"`
	Months        int    `json:"months"`
	InterestCents int64  `json:"interest_cents"`
}

// ToJSON converts the message to JSON bytes
func (m *PlanExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanExportMessageFromJSON creates a message from JSON bytes
func PlanExportMessageFromJSON(data []byte) (*PlanExportMessage, error) {
	var msg PlanExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
