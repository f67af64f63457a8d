package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/positions"
	"github.com/dnlwrthstr/custodian-service/internal/storage/transactions"
)

type publishedEvent struct {
	topic   string
	key     string
	payload any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, payload: payload})
	return nil
}

type fakeCustodianRepo struct {
	seq         int
	items       map[string]domain.Custodian
	updateCalls int
	insertErr   error
}

func newFakeCustodianRepo() *fakeCustodianRepo {
	return &fakeCustodianRepo{items: make(map[string]domain.Custodian)}
}

func (r *fakeCustodianRepo) Insert(_ context.Context, c domain.Custodian) (string, error) {
	if r.insertErr != nil {
		return "", r.insertErr
	}
	r.seq++
	id := fmt.Sprintf("cust-%d", r.seq)
	c.ID = id
	r.items[id] = c
	return id, nil
}

func (r *fakeCustodianRepo) FindByID(_ context.Context, id string) (domain.Custodian, error) {
	c, ok := r.items[id]
	if !ok {
		return domain.Custodian{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustodianRepo) List(_ context.Context, skip, limit int64) ([]domain.Custodian, error) {
	out := make([]domain.Custodian, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCustodianRepo) Update(_ context.Context, id string, fields map[string]any) error {
	c, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.updateCalls++
	for name, value := range fields {
		switch name {
		case "name":
			c.Name = value.(string)
		case "description":
			c.Description = value.(string)
		case "contact_info":
			c.ContactInfo = value.(map[string]string)
		case "api_credentials":
			c.APICredentials = value.(map[string]string)
		case "updated_at":
			c.UpdatedAt = value.(time.Time)
		}
	}
	r.items[id] = c
	return nil
}

func (r *fakeCustodianRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakePortfolioRepo struct {
	seq   int
	items map[string]domain.Portfolio
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{items: make(map[string]domain.Portfolio)}
}

func (r *fakePortfolioRepo) Insert(_ context.Context, p domain.Portfolio) (string, error) {
	r.seq++
	id := fmt.Sprintf("pf-%d", r.seq)
	p.ID = id
	r.items[id] = p
	return id, nil
}

func (r *fakePortfolioRepo) FindByID(_ context.Context, id string) (domain.Portfolio, error) {
	p, ok := r.items[id]
	if !ok {
		return domain.Portfolio{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePortfolioRepo) List(_ context.Context, custodianID string) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	for _, p := range r.items {
		if p.CustodianID == custodianID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePortfolioRepo) Update(_ context.Context, id string, fields map[string]any) error {
	p, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	for name, value := range fields {
		switch name {
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "currency":
			p.Currency = value.(string)
		case "updated_at":
			p.UpdatedAt = value.(time.Time)
		}
	}
	r.items[id] = p
	return nil
}

func (r *fakePortfolioRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakeAccountRepo struct {
	seq   int
	items map[string]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{items: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) Insert(_ context.Context, a domain.Account) (string, error) {
	r.seq++
	id := fmt.Sprintf("acc-%d", r.seq)
	a.ID = id
	r.items[id] = a
	return id, nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (domain.Account, error) {
	a, ok := r.items[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) List(_ context.Context, custodianID, portfolioID string) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range r.items {
		if a.CustodianID != custodianID {
			continue
		}
		if portfolioID != "" && a.PortfolioID != portfolioID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, id string, fields map[string]any) error {
	a, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v, ok := fields["updated_at"]; ok {
		a.UpdatedAt = v.(time.Time)
	}
	r.items[id] = a
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakePositionRepo struct {
	seq        int
	items      map[string]domain.Position
	lastFilter positions.Filter
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{items: make(map[string]domain.Position)}
}

func (r *fakePositionRepo) Insert(_ context.Context, p domain.Position) (string, error) {
	r.seq++
	id := fmt.Sprintf("pos-%d", r.seq)
	p.ID = id
	r.items[id] = p
	return id, nil
}

func (r *fakePositionRepo) FindByID(_ context.Context, id string) (domain.Position, error) {
	p, ok := r.items[id]
	if !ok {
		return domain.Position{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakePositionRepo) List(_ context.Context, f positions.Filter) ([]domain.Position, error) {
	r.lastFilter = f
	var out []domain.Position
	for _, p := range r.items {
		if p.CustodianID == f.CustodianID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePositionRepo) Update(_ context.Context, id string, fields map[string]any) error {
	p, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v, ok := fields["updated_at"]; ok {
		p.UpdatedAt = v.(time.Time)
	}
	r.items[id] = p
	return nil
}

func (r *fakePositionRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakeTransactionRepo struct {
	seq        int
	items      map[string]domain.Transaction
	lastFilter transactions.Filter
	listCalls  int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{items: make(map[string]domain.Transaction)}
}

func (r *fakeTransactionRepo) Insert(_ context.Context, t domain.Transaction) (string, error) {
	r.seq++
	id := fmt.Sprintf("tx-%d", r.seq)
	t.ID = id
	r.items[id] = t
	return id, nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id string) (domain.Transaction, error) {
	t, ok := r.items[id]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *fakeTransactionRepo) List(_ context.Context, f transactions.Filter) ([]domain.Transaction, error) {
	r.listCalls++
	r.lastFilter = f
	var out []domain.Transaction
	for _, t := range r.items {
		if t.CustodianID != f.CustodianID {
			continue
		}
		if f.From != nil && t.TradeDate.Before(*f.From) {
			continue
		}
		if f.To != nil && t.TradeDate.After(*f.To) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, id string, fields map[string]any) error {
	t, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	for name, value := range fields {
		switch name {
		case "transaction_type":
			t.TransactionType = value.(string)
		case "currency":
			t.Currency = value.(string)
		case "updated_at":
			t.UpdatedAt = value.(time.Time)
		}
	}
	r.items[id] = t
	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}
