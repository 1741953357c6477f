package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/migrations"
)

// setupTestDatabase поднимает PostgreSQL в контейнере, применяет миграции
// и возвращает хранилище вместе с функцией очистки.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("marketplace_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(nat.Port("5432/tcp")),
			).WithDeadline(90*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateProfile создает тестовый профиль и возвращает его ID
func (f *TestDataFactory) CreateProfile(t *testing.T, firstName, lastName, profession string,
	balance money.Amount, role string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO profiles (first_name, last_name, profession, balance, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		firstName, lastName, profession, int64(balance), role).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateContract создает тестовый контракт и возвращает его ID
func (f *TestDataFactory) CreateContract(t *testing.T, status string, clientID, contractorID int64) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO contracts (terms, status, client_id, contractor_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		"test terms", status, clientID, contractorID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateJob создает тестовую работу и возвращает её ID
func (f *TestDataFactory) CreateJob(t *testing.T, description string, price money.Amount,
	paid bool, paymentDate *time.Time, contractID int64) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO jobs (description, price, paid, payment_date, contract_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		description, int64(price), paid, paymentDate, contractID).Scan(&id)
	require.NoError(t, err)
	return id
}

// profileBalance читает текущий баланс профиля напрямую из базы
func (f *TestDataFactory) profileBalance(t *testing.T, id int64) money.Amount {
	t.Helper()
	var balance int64
	err := f.storage.DB.QueryRow(`SELECT balance FROM profiles WHERE id = $1`, id).Scan(&balance)
	require.NoError(t, err)
	return money.Amount(balance)
}
