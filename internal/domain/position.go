package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Position is a security holding within an account as of a point in time.
type Position struct {
	ID           string           `json:"id"`
	CustodianID  string           `json:"custodian_id"`
	PortfolioID  string           `json:"portfolio_id"`
	AccountID    string           `json:"account_id"`
	PositionID   string           `json:"position_id"`
	SecurityID   string           `json:"security_id"`
	SecurityType string           `json:"security_type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	MarketValue  decimal.Decimal  `json:"market_value"`
	Currency     string           `json:"currency"`
	CostBasis    *decimal.Decimal `json:"cost_basis,omitempty"`
	UnrealizedPL *decimal.Decimal `json:"unrealized_pl,omitempty"`
	AsOfDate     time.Time        `json:"as_of_date"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Validate checks the fields required to create a position.
func (p Position) Validate() error {
	if p.CustodianID == "" {
		return errors.New("custodian_id is required")
	}
	if p.PortfolioID == "" {
		return errors.New("portfolio_id is required")
	}
	if p.AccountID == "" {
		return errors.New("account_id is required")
	}
	if p.PositionID == "" {
		return errors.New("position_id is required")
	}
	if p.SecurityID == "" {
		return errors.New("security_id is required")
	}
	if p.SecurityType == "" {
		return errors.New("security_type is required")
	}
	if p.Currency == "" {
		return errors.New("currency is required")
	}
	if p.AsOfDate.IsZero() {
		return errors.New("as_of_date is required")
	}
	return nil
}

// PositionUpdate carries a partial update. Nil fields are left untouched.
type PositionUpdate struct {
	Quantity     *decimal.Decimal `json:"quantity"`
	MarketValue  *decimal.Decimal `json:"market_value"`
	CostBasis    *decimal.Decimal `json:"cost_basis"`
	UnrealizedPL *decimal.Decimal `json:"unrealized_pl"`
	AsOfDate     *time.Time       `json:"as_of_date"`
}

// Fields returns the change-set as stored field names mapped to new values.
func (u PositionUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Quantity != nil {
		fields["quantity"] = u.Quantity.InexactFloat64()
	}
	if u.MarketValue != nil {
		fields["market_value"] = u.MarketValue.InexactFloat64()
	}
	if u.CostBasis != nil {
		fields["cost_basis"] = u.CostBasis.InexactFloat64()
	}
	if u.UnrealizedPL != nil {
		fields["unrealized_pl"] = u.UnrealizedPL.InexactFloat64()
	}
	if u.AsOfDate != nil {
		fields["as_of_date"] = *u.AsOfDate
	}
	return fields
}
