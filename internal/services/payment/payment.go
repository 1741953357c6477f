// Package payment содержит движок перевода средств: оплату работы клиентом
// с атомарным списанием, зачислением исполнителю и отметкой работы оплаченной.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// LedgerRepository определяет методы хранилища, нужные движку платежей.
type LedgerRepository interface {
	// ExecuteJobPayment проводит платёж одной транзакцией и возвращает квитанцию.
	ExecuteJobPayment(ctx context.Context, jobID, clientID int64) (*models.PaymentReceipt, error)
}

// EventPublisher публикует события успешных платежей.
type EventPublisher interface {
	PublishPaymentCompleted(event models.PaymentCompletedEvent) error
}

// Service реализует бизнес-логику оплаты работ.
type Service struct {
	repo      LedgerRepository
	publisher EventPublisher
	log       *slog.Logger
}

// New создает новый Service. publisher может быть nil — тогда события не публикуются.
func New(repo LedgerRepository, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// PayJob оплачивает работу jobID от имени callerID.
//
// Бизнес-отказы (ErrNotPayable, ErrInsufficientFunds) возвращаются как есть;
// любой сбой хранилища схлопывается в ErrTransferFailed — внутренние причины
// наружу не отдаются, транзакция к этому моменту уже откатилась целиком.
// Операцию безопасно повторять: оплата уже оплаченной работы даёт ErrNotPayable.
func (s *Service) PayJob(ctx context.Context, jobID, callerID int64) (*models.PaymentReceipt, error) {
	const op = "payment.PayJob"

	receipt, err := s.repo.ExecuteJobPayment(ctx, jobID, callerID)
	if err != nil {
		if errors.Is(err, models.ErrNotPayable) ||
			errors.Is(err, models.ErrInsufficientFunds) ||
			errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.log.Error("job payment failed at storage level",
			slog.Int64("job_id", jobID),
			slog.Int64("caller_id", callerID),
			sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, models.ErrTransferFailed)
	}

	s.log.Info("job paid",
		slog.Int64("job_id", receipt.JobID),
		slog.Int64("client_id", receipt.ClientID),
		slog.Int64("contractor_id", receipt.ContractorID),
		slog.String("amount", receipt.Amount.String()))

	// Квитанция публикуется best-effort: платёж уже зафиксирован,
	// сбой публикации его не отменяет.
	if s.publisher != nil {
		event := models.PaymentCompletedEvent{
			EventID:      uuid.New().String(),
			JobID:        receipt.JobID,
			ContractID:   receipt.ContractID,
			ClientID:     receipt.ClientID,
			ContractorID: receipt.ContractorID,
			Amount:       receipt.Amount,
			PaidAt:       receipt.PaidAt,
		}
		if err := s.publisher.PublishPaymentCompleted(event); err != nil {
			s.log.Warn("failed to publish payment event",
				slog.Int64("job_id", receipt.JobID), sl.Err(err))
		}
	}

	return receipt, nil
}
