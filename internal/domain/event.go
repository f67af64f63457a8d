package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types carried in the event_type field of emitted envelopes.
const (
	EventCustodianCreated   = "custodian_created"
	EventCustodianUpdated   = "custodian_updated"
	EventTransactionCreated = "transaction_created"
	EventTransactionUpdated = "transaction_updated"
)

// CustodianEvent is the envelope emitted to the custodian topic on create
// and update. UpdatedFields carries the names of the changed fields on
// update events only, never their values.
type CustodianEvent struct {
	EventType     string    `json:"event_type"`
	CustodianID   string    `json:"custodian_id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	UpdatedFields []string  `json:"updated_fields,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCustodianEvent builds a custodian envelope of the given type.
func NewCustodianEvent(eventType string, c Custodian, updatedFields []string) CustodianEvent {
	return CustodianEvent{
		EventType:     eventType,
		CustodianID:   c.ID,
		Name:          c.Name,
		Code:          c.Code,
		UpdatedFields: updatedFields,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// TransactionEvent is the envelope emitted to the transaction topic.
type TransactionEvent struct {
	EventType       string           `json:"event_type"`
	TransactionID   string           `json:"transaction_id"`
	CustodianID     string           `json:"custodian_id"`
	PortfolioID     string           `json:"portfolio_id"`
	AccountID       string           `json:"account_id"`
	ExternalID      string           `json:"external_transaction_id"`
	TransactionType string           `json:"transaction_type"`
	SecurityID      *string          `json:"security_id,omitempty"`
	SecurityType    *string          `json:"security_type,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	TradeDate       time.Time        `json:"trade_date"`
	UpdatedFields   []string         `json:"updated_fields,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewTransactionEvent builds a transaction envelope of the given type.
func NewTransactionEvent(eventType string, t Transaction, updatedFields []string) TransactionEvent {
	return TransactionEvent{
		EventType:       eventType,
		TransactionID:   t.ID,
		CustodianID:     t.CustodianID,
		PortfolioID:     t.PortfolioID,
		AccountID:       t.AccountID,
		ExternalID:      t.TransactionID,
		TransactionType: t.TransactionType,
		SecurityID:      t.SecurityID,
		SecurityType:    t.SecurityType,
		Amount:          t.Amount,
		Currency:        t.Currency,
		TradeDate:       t.TradeDate,
		UpdatedFields:   updatedFields,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
