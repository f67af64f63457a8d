package services

import (
	"context"
	"time"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
)

// CreateAccount persists an account and re-fetches the stored record.
// Accounts are not event-worthy.
func (s *CustodianService) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	id, err := s.accounts.Insert(ctx, a)
	if err != nil {
		return domain.Account{}, err
	}
	return s.accounts.FindByID(ctx, id)
}

// ListAccounts returns accounts scoped to a custodian, optionally narrowed
// to a portfolio.
func (s *CustodianService) ListAccounts(ctx context.Context, custodianID, portfolioID string) ([]domain.Account, error) {
	return s.accounts.List(ctx, custodianID, portfolioID)
}

// GetAccount fetches one account or domain.ErrNotFound.
func (s *CustodianService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// UpdateAccount applies a partial update; an empty change-set touches
// nothing and returns the current record.
func (s *CustodianService) UpdateAccount(ctx context.Context, id string, upd domain.AccountUpdate) (domain.Account, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return s.accounts.FindByID(ctx, id)
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.accounts.Update(ctx, id, fields); err != nil {
		return domain.Account{}, err
	}
	return s.accounts.FindByID(ctx, id)
}

// DeleteAccount removes an account by identifier.
func (s *CustodianService) DeleteAccount(ctx context.Context, id string) (bool, error) {
	return s.accounts.Delete(ctx, id)
}
