package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/marketplace-ledger/internal/lib/money"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

func TestStorage_ExecuteJobPayment_Success(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(50000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(10000), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	jobID := factory.CreateJob(t, "backend API", money.Amount(20000), false, nil, contractID)

	receipt, err := storage.ExecuteJobPayment(ctx, jobID, clientID)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, jobID, receipt.JobID)
	assert.Equal(t, contractID, receipt.ContractID)
	assert.Equal(t, clientID, receipt.ClientID)
	assert.Equal(t, contractorID, receipt.ContractorID)
	assert.Equal(t, money.Amount(20000), receipt.Amount)
	assert.False(t, receipt.PaidAt.IsZero())

	assert.Equal(t, money.Amount(30000), factory.profileBalance(t, clientID))
	assert.Equal(t, money.Amount(30000), factory.profileBalance(t, contractorID))

	var paid bool
	var paymentDate *time.Time
	err = storage.DB.QueryRow(`SELECT paid, payment_date FROM jobs WHERE id = $1`, jobID).
		Scan(&paid, &paymentDate)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NotNil(t, paymentDate)
}

func TestStorage_ExecuteJobPayment_AlreadyPaid(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(50000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(10000), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	paidAt := time.Now()
	jobID := factory.CreateJob(t, "already paid job", money.Amount(20000), true, &paidAt, contractID)

	receipt, err := storage.ExecuteJobPayment(ctx, jobID, clientID)
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, models.ErrNotPayable)

	// Балансы не изменились
	assert.Equal(t, money.Amount(50000), factory.profileBalance(t, clientID))
	assert.Equal(t, money.Amount(10000), factory.profileBalance(t, contractorID))
}

func TestStorage_ExecuteJobPayment_InsufficientFunds(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(10000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	jobID := factory.CreateJob(t, "expensive job", money.Amount(10001), false, nil, contractID)

	receipt, err := storage.ExecuteJobPayment(ctx, jobID, clientID)
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	assert.Equal(t, money.Amount(10000), factory.profileBalance(t, clientID))
	assert.Equal(t, money.Amount(0), factory.profileBalance(t, contractorID))

	var paid bool
	require.NoError(t, storage.DB.QueryRow(`SELECT paid FROM jobs WHERE id = $1`, jobID).Scan(&paid))
	assert.False(t, paid)
}

func TestStorage_ExecuteJobPayment_ForeignContract(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	ownerID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(50000), models.RoleClient)
	strangerID := factory.CreateProfile(t, "Олег", "Смирнов", "", money.Amount(50000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, ownerID, contractorID)
	jobID := factory.CreateJob(t, "private job", money.Amount(20000), false, nil, contractID)

	// Платёж от имени клиента, которому контракт не принадлежит
	receipt, err := storage.ExecuteJobPayment(ctx, jobID, strangerID)
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, models.ErrNotPayable)

	assert.Equal(t, money.Amount(50000), factory.profileBalance(t, strangerID))
	assert.Equal(t, money.Amount(0), factory.profileBalance(t, contractorID))
}

func TestStorage_ExecuteJobPayment_UnknownClient(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(50000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	jobID := factory.CreateJob(t, "job", money.Amount(20000), false, nil, contractID)

	receipt, err := storage.ExecuteJobPayment(ctx, jobID, 999999)
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_ExecuteJobPayment_ConcurrentSameJob(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(100000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	jobID := factory.CreateJob(t, "contested job", money.Amount(30000), false, nil, contractID)

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.ExecuteJobPayment(ctx, jobID, clientID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, models.ErrNotPayable)
		}
	}
	// Из гонящихся платежей одной работы успешен ровно один
	assert.Equal(t, 1, successes)

	// Деньги списаны и зачислены ровно один раз
	assert.Equal(t, money.Amount(70000), factory.profileBalance(t, clientID))
	assert.Equal(t, money.Amount(30000), factory.profileBalance(t, contractorID))
}

func TestStorage_IncrementClientBalance(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(10000), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(10000), models.RoleContractor)

	require.NoError(t, storage.IncrementClientBalance(ctx, clientID, money.Amount(2500)))
	assert.Equal(t, money.Amount(12500), factory.profileBalance(t, clientID))

	// Исполнителю баланс пополнить нельзя
	err := storage.IncrementClientBalance(ctx, contractorID, money.Amount(2500))
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, money.Amount(10000), factory.profileBalance(t, contractorID))
}

func TestStorage_SumUnpaidPrices(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)

	active := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	terminated := factory.CreateContract(t, models.ContractStatusTerminated, clientID, contractorID)

	factory.CreateJob(t, "unpaid active", money.Amount(10000), false, nil, active)
	// Неоплаченные работы учитываются по всем статусам контракта
	factory.CreateJob(t, "unpaid terminated", money.Amount(30000), false, nil, terminated)
	paidAt := time.Now()
	factory.CreateJob(t, "paid job", money.Amount(99900), true, &paidAt, active)

	total, err := storage.SumUnpaidPrices(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(40000), total)

	// У клиента без работ сумма нулевая
	otherID := factory.CreateProfile(t, "Олег", "Смирнов", "", money.Amount(0), models.RoleClient)
	total, err = storage.SumUnpaidPrices(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), total)
}

func TestStorage_BestProfession(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	programmerID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	musicianID := factory.CreateProfile(t, "Борис", "Волков", "musician", money.Amount(0), models.RoleContractor)

	progContract := factory.CreateContract(t, models.ContractStatusInProgress, clientID, programmerID)
	musicContract := factory.CreateContract(t, models.ContractStatusInProgress, clientID, musicianID)

	inWindow := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	factory.CreateJob(t, "site", money.Amount(20000), true, &inWindow, progContract)
	factory.CreateJob(t, "bot", money.Amount(15000), true, &inWindow, progContract)
	factory.CreateJob(t, "concert", money.Amount(30000), true, &inWindow, musicContract)
	// За пределами окна — не должна учитываться
	factory.CreateJob(t, "late gig", money.Amount(100000), true, &outOfWindow, musicContract)
	// Неоплаченная — не должна учитываться
	factory.CreateJob(t, "pending", money.Amount(100000), false, nil, progContract)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	best, err := storage.BestProfession(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, "programmer", best.Profession)
	assert.Equal(t, money.Amount(35000), best.Earnings)
}

func TestStorage_BestProfession_TieBreak(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	zookeeperID := factory.CreateProfile(t, "Анна", "Сидорова", "zookeeper", money.Amount(0), models.RoleContractor)
	actorID := factory.CreateProfile(t, "Борис", "Волков", "actor", money.Amount(0), models.RoleContractor)

	zooContract := factory.CreateContract(t, models.ContractStatusInProgress, clientID, zookeeperID)
	actContract := factory.CreateContract(t, models.ContractStatusInProgress, clientID, actorID)

	paidAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	factory.CreateJob(t, "zoo job", money.Amount(20000), true, &paidAt, zooContract)
	factory.CreateJob(t, "act job", money.Amount(20000), true, &paidAt, actContract)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	// При равных суммах выигрывает лексикографически меньшая профессия
	best, err := storage.BestProfession(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, "actor", best.Profession)
	assert.Equal(t, money.Amount(20000), best.Earnings)
}

func TestStorage_BestProfession_NoData(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	best, err := storage.BestProfession(ctx, start, end)
	assert.Nil(t, best)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestStorage_GetContractForProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)
	strangerID := factory.CreateProfile(t, "Олег", "Смирнов", "", money.Amount(0), models.RoleClient)
	contractID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)

	// Обе стороны контракта видят его
	got, err := storage.GetContractForProfile(ctx, contractID, clientID)
	require.NoError(t, err)
	assert.Equal(t, contractID, got.ID)

	got, err = storage.GetContractForProfile(ctx, contractID, contractorID)
	require.NoError(t, err)
	assert.Equal(t, contractID, got.ID)

	// Чужой контракт неотличим от отсутствующего
	got, err = storage.GetContractForProfile(ctx, contractID, strangerID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_ListContractsForProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)

	newID := factory.CreateContract(t, models.ContractStatusNew, clientID, contractorID)
	activeID := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	factory.CreateContract(t, models.ContractStatusTerminated, clientID, contractorID)

	contracts, err := storage.ListContractsForProfile(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, newID, contracts[0].ID)
	assert.Equal(t, activeID, contracts[1].ID)

	// Профиль без контрактов получает пустой список, не ошибку
	otherID := factory.CreateProfile(t, "Олег", "Смирнов", "", money.Amount(0), models.RoleClient)
	contracts, err = storage.ListContractsForProfile(ctx, otherID)
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestStorage_ListUnpaidJobsForProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	clientID := factory.CreateProfile(t, "Иван", "Петров", "", money.Amount(0), models.RoleClient)
	contractorID := factory.CreateProfile(t, "Анна", "Сидорова", "programmer", money.Amount(0), models.RoleContractor)

	active := factory.CreateContract(t, models.ContractStatusInProgress, clientID, contractorID)
	terminated := factory.CreateContract(t, models.ContractStatusTerminated, clientID, contractorID)

	wantedID := factory.CreateJob(t, "unpaid active", money.Amount(10000), false, nil, active)
	paidAt := time.Now()
	factory.CreateJob(t, "paid active", money.Amount(20000), true, &paidAt, active)
	// Контракт завершён — работа не попадает в выдачу
	factory.CreateJob(t, "unpaid terminated", money.Amount(30000), false, nil, terminated)

	for _, profileID := range []int64{clientID, contractorID} {
		jobs, err := storage.ListUnpaidJobsForProfile(ctx, profileID)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, wantedID, jobs[0].ID)
		assert.False(t, jobs[0].Paid)
	}
}
