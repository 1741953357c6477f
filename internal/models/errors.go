package models

import "errors"

// Таксономия бизнес-ошибок. Сервисы возвращают эти значения (возможно обёрнутые
// через %w), HTTP-обработчики сопоставляют их с кодами ответов через errors.Is.
var (
	// ErrNotFound — сущность отсутствует или не принадлежит вызывающему.
	ErrNotFound = errors.New("not found")
	// ErrNotPayable — работа не найдена, уже оплачена или контракт не принадлежит
	// вызывающему как клиенту. Причины не различаются для внешнего потребителя.
	ErrNotPayable = errors.New("job is not payable")
	// ErrInsufficientFunds — баланс клиента меньше цены работы.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransferFailed — конфликт или сбой на уровне хранилища, транзакция
	// откатилась целиком; операцию безопасно повторить.
	ErrTransferFailed = errors.New("transfer failed")
	// ErrForbidden — вызывающий пытается пополнить чужой счёт.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidAmount — неположительная или некорректная денежная сумма.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDepositLimitExceeded — сумма пополнения превышает лимит в 25% от
	// суммы неоплаченных работ клиента.
	ErrDepositLimitExceeded = errors.New("deposit limit exceeded")
	// ErrNoData — в запрошенном окне нет оплаченных работ.
	ErrNoData = errors.New("no data")
)
