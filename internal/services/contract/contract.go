// Package contract реализует витрину чтения: выборку контрактов и неоплаченных
// работ вызывающего. Простая фильтрация без мутаций.
package contract

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// LedgerRepository определяет методы хранилища для витрины чтения.
type LedgerRepository interface {
	// GetContractForProfile возвращает контракт, если вызывающий — его сторона.
	GetContractForProfile(ctx context.Context, id, profileID int64) (*models.Contract, error)
	// ListContractsForProfile возвращает незавершённые контракты вызывающего.
	ListContractsForProfile(ctx context.Context, profileID int64) ([]*models.Contract, error)
	// ListUnpaidJobsForProfile возвращает неоплаченные работы по активным контрактам.
	ListUnpaidJobsForProfile(ctx context.Context, profileID int64) ([]*models.Job, error)
}

// Service реализует чтение контрактов и работ.
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

// GetContract возвращает контракт по ID для его клиента или исполнителя.
func (s *Service) GetContract(ctx context.Context, id, profileID int64) (*models.Contract, error) {
	return s.repo.GetContractForProfile(ctx, id, profileID)
}

// ListContracts возвращает незавершённые контракты вызывающего.
// Пустой список — нормальный результат, не ошибка.
func (s *Service) ListContracts(ctx context.Context, profileID int64) ([]*models.Contract, error) {
	return s.repo.ListContractsForProfile(ctx, profileID)
}

// ListUnpaidJobs возвращает неоплаченные работы по активным контрактам вызывающего.
func (s *Service) ListUnpaidJobs(ctx context.Context, profileID int64) ([]*models.Job, error) {
	return s.repo.ListUnpaidJobsForProfile(ctx, profileID)
}
