package services

import (
	"context"
	"time"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/positions"
)

// PositionListOptions narrows a position listing below the custodian scope.
type PositionListOptions struct {
	PortfolioID string
	AccountID   string
}

// CreatePosition persists a position and re-fetches the stored record.
// Positions are not event-worthy.
func (s *CustodianService) CreatePosition(ctx context.Context, p domain.Position) (domain.Position, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := s.positions.Insert(ctx, p)
	if err != nil {
		return domain.Position{}, err
	}
	return s.positions.FindByID(ctx, id)
}

// ListPositions returns positions scoped to a custodian with the optional
// narrowing filters ANDed in.
func (s *CustodianService) ListPositions(ctx context.Context, custodianID string, opts PositionListOptions) ([]domain.Position, error) {
	return s.positions.List(ctx, positions.Filter{
		CustodianID: custodianID,
		PortfolioID: opts.PortfolioID,
		AccountID:   opts.AccountID,
	})
}

// GetPosition fetches one position or domain.ErrNotFound.
func (s *CustodianService) GetPosition(ctx context.Context, id string) (domain.Position, error) {
	return s.positions.FindByID(ctx, id)
}

// UpdatePosition applies a partial update; an empty change-set touches
// nothing and returns the current record.
func (s *CustodianService) UpdatePosition(ctx context.Context, id string, upd domain.PositionUpdate) (domain.Position, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return s.positions.FindByID(ctx, id)
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.positions.Update(ctx, id, fields); err != nil {
		return domain.Position{}, err
	}
	return s.positions.FindByID(ctx, id)
}

// DeletePosition removes a position by identifier.
func (s *CustodianService) DeletePosition(ctx context.Context, id string) (bool, error) {
	return s.positions.Delete(ctx, id)
}
