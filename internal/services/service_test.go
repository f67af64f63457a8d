package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
)

type testEnv struct {
	svc          *CustodianService
	custodians   *fakeCustodianRepo
	portfolios   *fakePortfolioRepo
	accounts     *fakeAccountRepo
	positions    *fakePositionRepo
	transactions *fakeTransactionRepo
	publisher    *fakePublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		custodians:   newFakeCustodianRepo(),
		portfolios:   newFakePortfolioRepo(),
		accounts:     newFakeAccountRepo(),
		positions:    newFakePositionRepo(),
		transactions: newFakeTransactionRepo(),
		publisher:    &fakePublisher{},
	}
	env.svc = New(Deps{
		Custodians:   env.custodians,
		Portfolios:   env.portfolios,
		Accounts:     env.accounts,
		Positions:    env.positions,
		Transactions: env.transactions,
		Publisher:    env.publisher,
		Topics:       Topics{Custodian: "custodian.custodian", Transaction: "custodian.transactions"},
		Logger:       zap.NewNop(),
	})
	return env
}

func TestCreateCustodian(t *testing.T) {
	env := newTestEnv()

	created, err := env.svc.CreateCustodian(context.Background(), domain.Custodian{
		Name: "UBS Switzerland",
		Code: "UBS",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	require.Len(t, env.publisher.events, 1)
	ev := env.publisher.events[0]
	assert.Equal(t, "custodian.custodian", ev.topic)
	assert.Equal(t, created.ID, ev.key)
	envelope, ok := ev.payload.(domain.CustodianEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EventCustodianCreated, envelope.EventType)
	assert.Equal(t, created.ID, envelope.CustodianID)
	assert.Empty(t, envelope.UpdatedFields)
}

func TestCreateCustodian_PublishFailureDoesNotFailCreate(t *testing.T) {
	env := newTestEnv()
	env.publisher.err = errors.New("broker down")

	created, err := env.svc.CreateCustodian(context.Background(), domain.Custodian{
		Name: "UBS Switzerland",
		Code: "UBS",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// the persisted record is fetchable regardless of the publish outcome
	got, err := env.svc.GetCustodian(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUpdateCustodian_EmptyChangeSet(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateCustodian(context.Background(), domain.Custodian{Name: "UBS", Code: "UBS"})
	require.NoError(t, err)
	env.publisher.events = nil

	got, err := env.svc.UpdateCustodian(context.Background(), created.ID, domain.CustodianUpdate{})
	require.NoError(t, err)

	assert.Equal(t, created.UpdatedAt, got.UpdatedAt, "updated_at must be unchanged")
	assert.Zero(t, env.custodians.updateCalls, "storage must not be touched")
	assert.Empty(t, env.publisher.events, "no event for an empty change-set")
}

func TestUpdateCustodian(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateCustodian(context.Background(), domain.Custodian{Name: "UBS", Code: "UBS"})
	require.NoError(t, err)
	env.publisher.events = nil

	name := "UBS Switzerland AG"
	desc := "global custodian"
	got, err := env.svc.UpdateCustodian(context.Background(), created.ID, domain.CustodianUpdate{
		Name:        &name,
		Description: &desc,
	})
	require.NoError(t, err)

	assert.Equal(t, name, got.Name)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt), "updated_at must strictly increase")
	assert.Equal(t, created.CreatedAt, got.CreatedAt, "created_at is immutable")

	require.Len(t, env.publisher.events, 1)
	envelope, ok := env.publisher.events[0].payload.(domain.CustodianEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EventCustodianUpdated, envelope.EventType)
	assert.Equal(t, []string{"description", "name"}, envelope.UpdatedFields)
}

func TestUpdateCustodian_NotFound(t *testing.T) {
	env := newTestEnv()
	name := "x"
	_, err := env.svc.UpdateCustodian(context.Background(), "missing", domain.CustodianUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.publisher.events)
}

func TestGetCustodian_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.GetCustodian(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCustodian(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateCustodian(context.Background(), domain.Custodian{Name: "UBS", Code: "UBS"})
	require.NoError(t, err)

	found, err := env.svc.DeleteCustodian(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = env.svc.DeleteCustodian(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, found, "deleting again reports not-found, not an error")
}

func TestCreatePortfolio(t *testing.T) {
	env := newTestEnv()

	created, err := env.svc.CreatePortfolio(context.Background(), domain.Portfolio{
		CustodianID: "c1",
		PortfolioID: "ext-1",
		Name:        "Growth",
		Currency:    "CHF",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Empty(t, env.publisher.events, "portfolios are not event-worthy")
}

func TestCreateAccount(t *testing.T) {
	env := newTestEnv()

	created, err := env.svc.CreateAccount(context.Background(), domain.Account{
		CustodianID: "c1",
		PortfolioID: "p1",
		AccountID:   "ext-a1",
		Name:        "Trading",
		AccountType: "securities",
		Currency:    "CHF",
		Balance:     decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, env.publisher.events)
}

func TestCreateTransaction_PublishesEvent(t *testing.T) {
	env := newTestEnv()

	secID := "CH0012032048"
	secType := "equity"
	created, err := env.svc.CreateTransaction(context.Background(), domain.Transaction{
		CustodianID:     "c1",
		PortfolioID:     "p1",
		AccountID:       "a1",
		TransactionID:   "ext-t1",
		TransactionType: "buy",
		SecurityID:      &secID,
		SecurityType:    &secType,
		Amount:          decimal.NewFromFloat(1049.48),
		Currency:        "CHF",
		TradeDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, env.publisher.events, 1)
	ev := env.publisher.events[0]
	assert.Equal(t, "custodian.transactions", ev.topic)
	assert.Equal(t, created.ID, ev.key)

	envelope, ok := ev.payload.(domain.TransactionEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EventTransactionCreated, envelope.EventType)
	require.NotNil(t, envelope.SecurityID)
	assert.Equal(t, secID, *envelope.SecurityID)
	require.NotNil(t, envelope.SecurityType)
	assert.Equal(t, secType, *envelope.SecurityType)
}

func TestUpdateTransaction_EventListsFieldNames(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateTransaction(context.Background(), domain.Transaction{
		CustodianID:     "c1",
		PortfolioID:     "p1",
		AccountID:       "a1",
		TransactionID:   "ext-t1",
		TransactionType: "buy",
		Amount:          decimal.NewFromInt(100),
		Currency:        "CHF",
		TradeDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	env.publisher.events = nil

	txType := "sell"
	_, err = env.svc.UpdateTransaction(context.Background(), created.ID, domain.TransactionUpdate{
		TransactionType: &txType,
	})
	require.NoError(t, err)

	require.Len(t, env.publisher.events, 1)
	envelope, ok := env.publisher.events[0].payload.(domain.TransactionEvent)
	require.True(t, ok)
	assert.Equal(t, domain.EventTransactionUpdated, envelope.EventType)
	assert.Equal(t, []string{"transaction_type"}, envelope.UpdatedFields)
}

func TestListTransactions_DateRange(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateTransaction(context.Background(), domain.Transaction{
		CustodianID:     "c1",
		PortfolioID:     "p1",
		AccountID:       "a1",
		TransactionID:   "ext-t1",
		TransactionType: "buy",
		Amount:          decimal.NewFromInt(100),
		Currency:        "CHF",
		TradeDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("inclusive range includes the trade", func(t *testing.T) {
		got, err := env.svc.ListTransactions(context.Background(), "c1", TransactionListOptions{
			FromDate: "2024-01-01",
			ToDate:   "2024-01-31",
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("later lower bound excludes the trade", func(t *testing.T) {
		got, err := env.svc.ListTransactions(context.Background(), "c1", TransactionListOptions{
			FromDate: "2024-02-01",
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("datetime-shaped bound is accepted", func(t *testing.T) {
		got, err := env.svc.ListTransactions(context.Background(), "c1", TransactionListOptions{
			FromDate: "2024-01-15T00:00:00",
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("malformed date fails the whole request", func(t *testing.T) {
		env.transactions.listCalls = 0
		_, err := env.svc.ListTransactions(context.Background(), "c1", TransactionListOptions{
			FromDate: "not-a-date",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Zero(t, env.transactions.listCalls, "no partial filtering on malformed input")
	})
}

func TestListPositions_FilterPassThrough(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ListPositions(context.Background(), "c1", PositionListOptions{
		PortfolioID: "p1",
		AccountID:   "a1",
	})
	require.NoError(t, err)

	assert.Equal(t, "c1", env.positions.lastFilter.CustodianID)
	assert.Equal(t, "p1", env.positions.lastFilter.PortfolioID)
	assert.Equal(t, "a1", env.positions.lastFilter.AccountID)
}

func TestUpdatePortfolio_EmptyChangeSet(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreatePortfolio(context.Background(), domain.Portfolio{
		CustodianID: "c1", PortfolioID: "ext-1", Name: "Growth", Currency: "CHF",
	})
	require.NoError(t, err)

	got, err := env.svc.UpdatePortfolio(context.Background(), created.ID, domain.PortfolioUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
}
