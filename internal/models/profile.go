// Package models содержит доменные структуры маркетплейса: профили, контракты,
// работы, события платежей, а также общую таксономию бизнес-ошибок.
package models

import "github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"

// Роли профиля.
const (
	RoleClient     = "client"
	RoleContractor = "contractor"
)

// Profile представляет счёт участника маркетплейса: клиента или исполнителя.
// Баланс хранится в минорных единицах и изменяется только через движок платежей
// или депозитный ограничитель.
type Profile struct {
	ID         int64        `json:"id"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Profession string       `json:"profession"`
	Balance    money.Amount `json:"balance"`
	Role       string       `json:"role"`
}

// Identity — срез профиля без баланса, который безопасно кешировать между
// запросами: баланс всегда перечитывается в транзакции хранилища.
type Identity struct {
	ID         int64  `json:"id"`
	Role       string `json:"role"`
	Profession string `json:"profession"`
}

// Identity возвращает кешируемую часть профиля.
func (p *Profile) Identity() *Identity {
	return &Identity{
		ID:         p.ID,
		Role:       p.Role,
		Profession: p.Profession,
	}
}
