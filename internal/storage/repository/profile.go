package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// GetProfile возвращает профиль по ID.
func (s *Storage) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, profession, balance, role
			  FROM profiles WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Profile
	if err := row.Scan(&result.ID, &result.FirstName, &result.LastName,
		&result.Profession, &result.Balance, &result.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// IncrementClientBalance атомарно увеличивает баланс клиента на amount.
// Одиночный UPDATE без чтения предыдущего значения, блокировка строки не нужна.
func (s *Storage) IncrementClientBalance(ctx context.Context, clientID int64, amount money.Amount) error {
	const op = "storage.IncrementClientBalance"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles SET balance = balance + $1
			  WHERE id = $2 AND role = 'client'`
	result, err := s.DB.ExecContext(ctx, query, int64(amount), clientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
