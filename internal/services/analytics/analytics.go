// Package analytics реализует отчёт о заработках: профессия с наибольшей суммой
// по оплаченным работам за период. Агрегация выполняется заново на каждый запрос,
// результаты не кешируются.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Границы окна по умолчанию: практически неограниченный диапазон.
var (
	minWindowBound = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxWindowBound = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// LedgerRepository определяет методы хранилища, нужные отчётам.
type LedgerRepository interface {
	// BestProfession возвращает профессию с наибольшим заработком в окне
	// [start, end] включительно; при равенстве — лексикографически меньшую.
	BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error)
}

// Service реализует бизнес-логику отчётов о заработках.
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

// BestProfession возвращает лучшую профессию за период. Нулевые значения start
// и end заменяются минимальной и максимальной границами окна. Отсутствие данных
// в окне — models.ErrNoData, а не ошибка сервера.
func (s *Service) BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error) {
	const op = "analytics.BestProfession"

	if start.IsZero() {
		start = minWindowBound
	}
	if end.IsZero() {
		end = maxWindowBound
	}

	result, err := s.repo.BestProfession(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
