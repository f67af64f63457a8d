package services

import (
	"context"
	"time"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/transactions"
)

// TransactionListOptions narrows a transaction listing below the custodian
// scope. FromDate and ToDate are the raw filter strings from the caller;
// either may be empty.
type TransactionListOptions struct {
	PortfolioID string
	AccountID   string
	FromDate    string
	ToDate      string
}

// CreateTransaction persists a transaction, re-fetches the stored record
// and emits a transaction_created event.
func (s *CustodianService) CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	id, err := s.transactions.Insert(ctx, t)
	if err != nil {
		return domain.Transaction{}, err
	}

	created, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	event := domain.NewTransactionEvent(domain.EventTransactionCreated, created, nil)
	_ = s.publisher.Publish(ctx, s.topics.Transaction, created.ID, event)

	return created, nil
}

// ListTransactions returns transactions scoped to a custodian. A malformed
// date string fails the whole request with domain.ErrInvalidDateRange: no
// partial filtering.
func (s *CustodianService) ListTransactions(ctx context.Context, custodianID string, opts TransactionListOptions) ([]domain.Transaction, error) {
	f := transactions.Filter{
		CustodianID: custodianID,
		PortfolioID: opts.PortfolioID,
		AccountID:   opts.AccountID,
	}

	if opts.FromDate != "" {
		from, err := parseDate(opts.FromDate)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if opts.ToDate != "" {
		to, err := parseDate(opts.ToDate)
		if err != nil {
			return nil, err
		}
		f.To = &to
	}

	return s.transactions.List(ctx, f)
}

// GetTransaction fetches one transaction or domain.ErrNotFound.
func (s *CustodianService) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	return s.transactions.FindByID(ctx, id)
}

// UpdateTransaction applies a partial update. An empty change-set touches
// nothing and returns the current record; otherwise a transaction_updated
// event lists the changed field names.
func (s *CustodianService) UpdateTransaction(ctx context.Context, id string, upd domain.TransactionUpdate) (domain.Transaction, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return s.transactions.FindByID(ctx, id)
	}

	names := updatedFieldNames(fields)
	fields["updated_at"] = time.Now().UTC()

	if err := s.transactions.Update(ctx, id, fields); err != nil {
		return domain.Transaction{}, err
	}

	updated, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	event := domain.NewTransactionEvent(domain.EventTransactionUpdated, updated, names)
	_ = s.publisher.Publish(ctx, s.topics.Transaction, updated.ID, event)

	return updated, nil
}

// DeleteTransaction removes a transaction by identifier.
func (s *CustodianService) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	return s.transactions.Delete(ctx, id)
}
