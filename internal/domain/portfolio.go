package domain

import (
	"time"

	"github.com/pkg/errors"
)

// Portfolio groups accounts under a custodian. PortfolioID is the external
// identifier assigned by the custodian, distinct from the store-assigned ID.
type Portfolio struct {
	ID          string    `json:"id"`
	CustodianID string    `json:"custodian_id"`
	PortfolioID string    `json:"portfolio_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields required to create a portfolio.
func (p Portfolio) Validate() error {
	if p.CustodianID == "" {
		return errors.New("custodian_id is required")
	}
	if p.PortfolioID == "" {
		return errors.New("portfolio_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// PortfolioUpdate carries a partial update. Nil fields are left untouched.
type PortfolioUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Currency    *string `json:"currency"`
}

// Fields returns the change-set as stored field names mapped to new values.
func (u PortfolioUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Currency != nil {
		fields["currency"] = *u.Currency
	}
	return fields
}
