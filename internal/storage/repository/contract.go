package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// GetContractForProfile возвращает контракт по ID, если вызывающий является
// его клиентом или исполнителем. Чужой контракт неотличим от отсутствующего.
func (s *Storage) GetContractForProfile(ctx context.Context, id, profileID int64) (*models.Contract, error) {
	const op = "storage.GetContractForProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, terms, status, client_id, contractor_id
			  FROM contracts
			  WHERE id = $1 AND (client_id = $2 OR contractor_id = $2)`
	row := s.DB.QueryRowContext(ctx, query, id, profileID)

	var result models.Contract
	if err := row.Scan(&result.ID, &result.Terms, &result.Status,
		&result.ClientID, &result.ContractorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListContractsForProfile возвращает незавершённые контракты вызывающего
// (как клиента или исполнителя).
func (s *Storage) ListContractsForProfile(ctx context.Context, profileID int64) ([]*models.Contract, error) {
	const op = "storage.ListContractsForProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, terms, status, client_id, contractor_id
			  FROM contracts
			  WHERE status != 'terminated'
			    AND (client_id = $1 OR contractor_id = $1)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Contract{}
	for rows.Next() {
		var item models.Contract
		if err := rows.Scan(&item.ID, &item.Terms, &item.Status,
			&item.ClientID, &item.ContractorID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
