package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Transaction is a booked movement on an account: a trade, transfer, fee or
// corporate action. Security fields are only set for security transactions.
type Transaction struct {
	ID              string           `json:"id"`
	CustodianID     string           `json:"custodian_id"`
	PortfolioID     string           `json:"portfolio_id"`
	AccountID       string           `json:"account_id"`
	TransactionID   string           `json:"transaction_id"`
	TransactionType string           `json:"transaction_type"`
	SecurityID      *string          `json:"security_id,omitempty"`
	SecurityType    *string          `json:"security_type,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	TradeDate       time.Time        `json:"trade_date"`
	SettlementDate  *time.Time       `json:"settlement_date,omitempty"`
	Description     *string          `json:"description,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Validate checks the fields required to create a transaction.
func (t Transaction) Validate() error {
	if t.CustodianID == "" {
		return errors.New("custodian_id is required")
	}
	if t.PortfolioID == "" {
		return errors.New("portfolio_id is required")
	}
	if t.AccountID == "" {
		return errors.New("account_id is required")
	}
	if t.TransactionID == "" {
		return errors.New("transaction_id is required")
	}
	if t.TransactionType == "" {
		return errors.New("transaction_type is required")
	}
	if t.Currency == "" {
		return errors.New("currency is required")
	}
	if t.TradeDate.IsZero() {
		return errors.New("trade_date is required")
	}
	return nil
}

// TransactionUpdate carries a partial update. Nil fields are left untouched.
type TransactionUpdate struct {
	TransactionType *string          `json:"transaction_type"`
	SecurityID      *string          `json:"security_id"`
	SecurityType    *string          `json:"security_type"`
	Quantity        *decimal.Decimal `json:"quantity"`
	Price           *decimal.Decimal `json:"price"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency"`
	TradeDate       *time.Time       `json:"trade_date"`
	SettlementDate  *time.Time       `json:"settlement_date"`
	Description     *string          `json:"description"`
}

// Fields returns the change-set as stored field names mapped to new values.
func (u TransactionUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.TransactionType != nil {
		fields["transaction_type"] = *u.TransactionType
	}
	if u.SecurityID != nil {
		fields["security_id"] = *u.SecurityID
	}
	if u.SecurityType != nil {
		fields["security_type"] = *u.SecurityType
	}
	if u.Quantity != nil {
		fields["quantity"] = u.Quantity.InexactFloat64()
	}
	if u.Price != nil {
		fields["price"] = u.Price.InexactFloat64()
	}
	if u.Amount != nil {
		fields["amount"] = u.Amount.InexactFloat64()
	}
	if u.Currency != nil {
		fields["currency"] = *u.Currency
	}
	if u.TradeDate != nil {
		fields["trade_date"] = *u.TradeDate
	}
	if u.SettlementDate != nil {
		fields["settlement_date"] = *u.SettlementDate
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	return fields
}
