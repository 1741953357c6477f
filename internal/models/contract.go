package models

// Статусы контракта.
const (
	ContractStatusNew        = "new"
	ContractStatusInProgress = "in_progress"
	ContractStatusTerminated = "terminated"
)

// Contract связывает одного клиента и одного исполнителя.
// Для движка платежей контракт доступен только на чтение.
type Contract struct {
	ID           int64  `json:"id"`
	Terms        string `json:"terms"`
	Status       string `json:"status"`
	ClientID     int64  `json:"client_id"`
	ContractorID int64  `json:"contractor_id"`
}
