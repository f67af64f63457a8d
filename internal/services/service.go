package services

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/positions"
	"github.com/dnlwrthstr/custodian-service/internal/storage/transactions"
)

// CustodianRepository persists custodians.
type CustodianRepository interface {
	Insert(ctx context.Context, c domain.Custodian) (string, error)
	FindByID(ctx context.Context, id string) (domain.Custodian, error)
	List(ctx context.Context, skip, limit int64) ([]domain.Custodian, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PortfolioRepository persists portfolios.
type PortfolioRepository interface {
	Insert(ctx context.Context, p domain.Portfolio) (string, error)
	FindByID(ctx context.Context, id string) (domain.Portfolio, error)
	List(ctx context.Context, custodianID string) ([]domain.Portfolio, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
}

// AccountRepository persists accounts.
type AccountRepository interface {
	Insert(ctx context.Context, a domain.Account) (string, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	List(ctx context.Context, custodianID, portfolioID string) ([]domain.Account, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PositionRepository persists positions.
type PositionRepository interface {
	Insert(ctx context.Context, p domain.Position) (string, error)
	FindByID(ctx context.Context, id string) (domain.Position, error)
	List(ctx context.Context, f positions.Filter) ([]domain.Position, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
}

// TransactionRepository persists transactions.
type TransactionRepository interface {
	Insert(ctx context.Context, t domain.Transaction) (string, error)
	FindByID(ctx context.Context, id string) (domain.Transaction, error)
	List(ctx context.Context, f transactions.Filter) ([]domain.Transaction, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
}

// EventPublisher emits domain events. Its error is informational: the
// service discards it because eventing is best-effort and strictly
// secondary to persistence.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// Topics names the destinations for custodian and transaction events.
type Topics struct {
	Custodian   string
	Transaction string
}

// Deps bundles the collaborators of the CustodianService.
type Deps struct {
	Custodians   CustodianRepository
	Portfolios   PortfolioRepository
	Accounts     AccountRepository
	Positions    PositionRepository
	Transactions TransactionRepository
	Publisher    EventPublisher
	Topics       Topics
	Logger       *zap.Logger
}

// CustodianService sequences "persist, then emit": persistence failures
// short-circuit event emission, and event-emission failures never
// invalidate a persisted write.
type CustodianService struct {
	custodians   CustodianRepository
	portfolios   PortfolioRepository
	accounts     AccountRepository
	positions    PositionRepository
	transactions TransactionRepository
	publisher    EventPublisher
	topics       Topics
	logger       *zap.Logger
}

// New creates a CustodianService from its dependencies.
func New(deps Deps) *CustodianService {
	return &CustodianService{
		custodians:   deps.Custodians,
		portfolios:   deps.Portfolios,
		accounts:     deps.Accounts,
		positions:    deps.Positions,
		transactions: deps.Transactions,
		publisher:    deps.Publisher,
		topics:       deps.Topics,
		logger:       deps.Logger,
	}
}

// updatedFieldNames returns the change-set field names in stable order.
func updatedFieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate accepts the ISO-8601 shapes callers send in date-range filters.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(domain.ErrInvalidDateRange, "unparseable date %q", s)
}
