package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Account is a cash or securities account held at a custodian, scoped to a
// single portfolio.
type Account struct {
	ID          string          `json:"id"`
	CustodianID string          `json:"custodian_id"`
	PortfolioID string          `json:"portfolio_id"`
	AccountID   string          `json:"account_id"`
	Name        string          `json:"name"`
	AccountType string          `json:"account_type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the fields required to create an account.
func (a Account) Validate() error {
	if a.CustodianID == "" {
		return errors.New("custodian_id is required")
	}
	if a.PortfolioID == "" {
		return errors.New("portfolio_id is required")
	}
	if a.AccountID == "" {
		return errors.New("account_id is required")
	}
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.AccountType == "" {
		return errors.New("account_type is required")
	}
	if a.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// AccountUpdate carries a partial update. Nil fields are left untouched.
type AccountUpdate struct {
	Name        *string          `json:"name"`
	AccountType *string          `json:"account_type"`
	Currency    *string          `json:"currency"`
	Balance     *decimal.Decimal `json:"balance"`
}

// Fields returns the change-set as stored field names mapped to new values.
func (u AccountUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.AccountType != nil {
		fields["account_type"] = *u.AccountType
	}
	if u.Currency != nil {
		fields["currency"] = *u.Currency
	}
	if u.Balance != nil {
		fields["balance"] = u.Balance.InexactFloat64()
	}
	return fields
}
