package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
)

// CreateCustodian persists a custodian, re-fetches the stored record so the
// response reflects exactly what the store persisted, and emits a
// custodian_created event.
func (s *CustodianService) CreateCustodian(ctx context.Context, c domain.Custodian) (domain.Custodian, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	id, err := s.custodians.Insert(ctx, c)
	if err != nil {
		return domain.Custodian{}, err
	}

	created, err := s.custodians.FindByID(ctx, id)
	if err != nil {
		return domain.Custodian{}, err
	}

	event := domain.NewCustodianEvent(domain.EventCustodianCreated, created, nil)
	_ = s.publisher.Publish(ctx, s.topics.Custodian, created.ID, event)

	return created, nil
}

// ListCustodians returns custodians paginated by skip and limit.
func (s *CustodianService) ListCustodians(ctx context.Context, skip, limit int64) ([]domain.Custodian, error) {
	return s.custodians.List(ctx, skip, limit)
}

// GetCustodian fetches one custodian or domain.ErrNotFound.
func (s *CustodianService) GetCustodian(ctx context.Context, id string) (domain.Custodian, error) {
	return s.custodians.FindByID(ctx, id)
}

// UpdateCustodian applies a partial update. An empty change-set touches
// nothing and returns the current record; otherwise updated_at is stamped,
// the fields are applied, and a custodian_updated event lists the changed
// field names.
func (s *CustodianService) UpdateCustodian(ctx context.Context, id string, upd domain.CustodianUpdate) (domain.Custodian, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return s.custodians.FindByID(ctx, id)
	}

	names := updatedFieldNames(fields)
	fields["updated_at"] = time.Now().UTC()

	if err := s.custodians.Update(ctx, id, fields); err != nil {
		return domain.Custodian{}, err
	}

	updated, err := s.custodians.FindByID(ctx, id)
	if err != nil {
		return domain.Custodian{}, err
	}

	event := domain.NewCustodianEvent(domain.EventCustodianUpdated, updated, names)
	_ = s.publisher.Publish(ctx, s.topics.Custodian, updated.ID, event)

	s.logger.Debug("custodian updated", zap.String("id", id), zap.Strings("fields", names))
	return updated, nil
}

// DeleteCustodian removes a custodian by identifier. Child records are not
// cascaded and keep their custodian_id.
func (s *CustodianService) DeleteCustodian(ctx context.Context, id string) (bool, error) {
	return s.custodians.Delete(ctx, id)
}
