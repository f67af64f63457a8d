package services

import (
	"context"
	"time"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
)

// CreatePortfolio persists a portfolio and re-fetches the stored record.
// Portfolios are not event-worthy.
func (s *CustodianService) CreatePortfolio(ctx context.Context, p domain.Portfolio) (domain.Portfolio, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := s.portfolios.Insert(ctx, p)
	if err != nil {
		return domain.Portfolio{}, err
	}
	return s.portfolios.FindByID(ctx, id)
}

// ListPortfolios returns all portfolios scoped to a custodian.
func (s *CustodianService) ListPortfolios(ctx context.Context, custodianID string) ([]domain.Portfolio, error) {
	return s.portfolios.List(ctx, custodianID)
}

// GetPortfolio fetches one portfolio or domain.ErrNotFound.
func (s *CustodianService) GetPortfolio(ctx context.Context, id string) (domain.Portfolio, error) {
	return s.portfolios.FindByID(ctx, id)
}

// UpdatePortfolio applies a partial update; an empty change-set touches
// nothing and returns the current record.
func (s *CustodianService) UpdatePortfolio(ctx context.Context, id string, upd domain.PortfolioUpdate) (domain.Portfolio, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return s.portfolios.FindByID(ctx, id)
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.portfolios.Update(ctx, id, fields); err != nil {
		return domain.Portfolio{}, err
	}
	return s.portfolios.FindByID(ctx, id)
}

// DeletePortfolio removes a portfolio by identifier.
func (s *CustodianService) DeletePortfolio(ctx context.Context, id string) (bool, error) {
	return s.portfolios.Delete(ctx, id)
}
