package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// ListUnpaidJobsForProfile возвращает неоплаченные работы по активным
// (in_progress) контрактам, где вызывающий — клиент или исполнитель.
func (s *Storage) ListUnpaidJobsForProfile(ctx context.Context, profileID int64) ([]*models.Job, error) {
	const op = "storage.ListUnpaidJobsForProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT j.id, j.description, j.price, j.paid, j.payment_date, j.contract_id
			  FROM jobs j
			  JOIN contracts c ON c.id = j.contract_id
			  WHERE j.paid = FALSE
			    AND c.status = 'in_progress'
			    AND (c.client_id = $1 OR c.contractor_id = $1)
			  ORDER BY j.id`
	rows, err := s.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Job{}
	for rows.Next() {
		var item models.Job
		if err := rows.Scan(&item.ID, &item.Description, &item.Price,
			&item.Paid, &item.PaymentDate, &item.ContractID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumUnpaidPrices возвращает сумму цен всех неоплаченных работ клиента по всем
// контрактам независимо от их статуса: консервативная оценка его обязательств.
func (s *Storage) SumUnpaidPrices(ctx context.Context, clientID int64) (money.Amount, error) {
	const op = "storage.SumUnpaidPrices"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(j.price), 0)
			  FROM jobs j
			  JOIN contracts c ON c.id = j.contract_id
			  WHERE j.paid = FALSE AND c.client_id = $1`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, clientID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return money.Amount(total), nil
}

// BestProfession возвращает профессию с наибольшим суммарным заработком по
// оплаченным работам в окне [start, end]. При равенстве сумм выбирается
// лексикографически меньшее имя профессии.
func (s *Storage) BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error) {
	const op = "storage.BestProfession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.profession, SUM(j.price) AS earnings
			  FROM jobs j
			  JOIN contracts c ON c.id = j.contract_id
			  JOIN profiles p ON p.id = c.contractor_id
			  WHERE j.paid = TRUE
			    AND j.payment_date >= $1
			    AND j.payment_date <= $2
			  GROUP BY p.profession
			  ORDER BY earnings DESC, p.profession ASC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, start, end)

	var result models.ProfessionEarnings
	if err := row.Scan(&result.Profession, &result.Earnings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNoData)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
