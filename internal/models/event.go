package models

import (
	"time"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
)

// PaymentCompletedEvent публикуется в RabbitMQ после фиксации платежа.
// Доставка best-effort: сбой публикации не влияет на сам платёж.
type PaymentCompletedEvent struct {
	EventID      string       `json:"event_id"`
	JobID        int64        `json:"job_id"`
	ContractID   int64        `json:"contract_id"`
	ClientID     int64        `json:"client_id"`
	ContractorID int64        `json:"contractor_id"`
	Amount       money.Amount `json:"amount"`
	PaidAt       time.Time    `json:"paid_at"`
}
