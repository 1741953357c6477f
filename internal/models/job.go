package models

import (
	"time"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
)

// Job — единица оплачиваемой работы по контракту. Переход unpaid -> paid
// одноразовый: после установки paid и payment_date не изменяются.
type Job struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Paid        bool         `json:"paid"`
	PaymentDate *time.Time   `json:"payment_date,omitempty"`
	ContractID  int64        `json:"contract_id"`
}

// PaymentReceipt описывает успешно проведённый платёж: кто, кому, за какую
// работу и сколько. Формируется только после фиксации транзакции.
type PaymentReceipt struct {
	JobID        int64        `json:"job_id"`
	ContractID   int64        `json:"contract_id"`
	ClientID     int64        `json:"client_id"`
	ContractorID int64        `json:"contractor_id"`
	Amount       money.Amount `json:"amount"`
	PaidAt       time.Time    `json:"paid_at"`
}

// ProfessionEarnings — результат агрегации заработка по профессии.
type ProfessionEarnings struct {
	Profession string       `json:"profession"`
	Earnings   money.Amount `json:"earnings"`
}
