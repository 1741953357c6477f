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

// ExecuteJobPayment проводит оплату работы одной транзакцией: списание с клиента,
// зачисление исполнителю, отметка работы оплаченной. Либо применяются все три
// изменения, либо ни одного.
//
// Дисциплина изоляции:
//   - строка клиента блокируется SELECT ... FOR UPDATE — конкурирующие платежи
//     и депозиты того же клиента сериализуются на ней;
//   - списание условное (balance >= price), на случай если вторая транзакция
//     прошла предварительную проверку по старому балансу, но проиграла гонку
//     за блокировку;
//   - зачисление исполнителю — атомарный инкремент, его строка не блокируется:
//     прежнее значение баланса исполнителя нигде не читается;
//   - отметка оплаты защищена условием paid = FALSE, поэтому из двух гонящихся
//     платежей одной и той же работы успешным будет ровно один.
//
// Возвращает models.ErrNotPayable, models.ErrInsufficientFunds или ошибку
// хранилища; при любой из них транзакция откатывается целиком.
func (s *Storage) ExecuteJobPayment(ctx context.Context, jobID, clientID int64) (*models.PaymentReceipt, error) {
	const op = "storage.ExecuteJobPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Блокируем строку клиента: единственная строка, которая гарантированно
	// изменится, поэтому именно она сериализует конкурентный доступ.
	var clientBalance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM profiles WHERE id = $1 FOR UPDATE`,
		clientID).Scan(&clientBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: lock client: %w", op, err)
	}

	// Перечитываем работу уже под транзакцией: не оплачена и принадлежит
	// вызывающему как клиенту. Отсутствие строки покрывает все три причины
	// ErrNotPayable: нет работы, уже оплачена, чужой контракт.
	var (
		price        int64
		contractID   int64
		contractorID int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT j.price, c.id, c.contractor_id
		 FROM jobs j
		 JOIN contracts c ON c.id = j.contract_id
		 WHERE j.id = $1 AND j.paid = FALSE AND c.client_id = $2`,
		jobID, clientID).Scan(&price, &contractID, &contractorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotPayable)
		}
		return nil, fmt.Errorf("%s: read job: %w", op, err)
	}

	// Условное списание: проверку balance >= price выполняет само хранилище.
	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET balance = balance - $1
		 WHERE id = $2 AND balance >= $1`,
		price, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: debit client: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: debit client: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInsufficientFunds)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE profiles SET balance = balance + $1 WHERE id = $2`,
		price, contractorID)
	if err != nil {
		return nil, fmt.Errorf("%s: credit contractor: %w", op, err)
	}
	rowsAffected, err = res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: credit contractor: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: contractor profile %d missing", op, contractorID)
	}

	// Отметка оплаты; повторная защита paid = FALSE на случай гонки двух
	// платежей одной работы.
	var paidAt time.Time
	err = tx.QueryRowContext(ctx,
		`UPDATE jobs SET paid = TRUE, payment_date = now()
		 WHERE id = $1 AND paid = FALSE
		 RETURNING payment_date`,
		jobID).Scan(&paidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotPayable)
		}
		return nil, fmt.Errorf("%s: mark paid: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	committed = true

	return &models.PaymentReceipt{
		JobID:        jobID,
		ContractID:   contractID,
		ClientID:     clientID,
		ContractorID: contractorID,
		Amount:       money.Amount(price),
		PaidAt:       paidAt,
	}, nil
}
