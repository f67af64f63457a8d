package domain

import (
	"time"

	"github.com/pkg/errors"
)

// Custodian is an external financial institution holding client assets.
// It is the top-level scoping entity: portfolios, accounts, positions and
// transactions all reference a custodian.
type Custodian struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Code           string            `json:"code"`
	Description    string            `json:"description,omitempty"`
	ContactInfo    map[string]string `json:"contact_info"`
	APICredentials map[string]string `json:"api_credentials"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Validate checks the fields required to create a custodian.
func (c Custodian) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// CustodianUpdate carries a partial update. Nil fields are left untouched
// in storage.
type CustodianUpdate struct {
	Name           *string           `json:"name"`
	Description    *string           `json:"description"`
	ContactInfo    map[string]string `json:"contact_info"`
	APICredentials map[string]string `json:"api_credentials"`
}

// Fields returns the change-set as stored field names mapped to their new
// values. An empty map means the caller supplied nothing to change.
func (u CustodianUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.ContactInfo != nil {
		fields["contact_info"] = u.ContactInfo
	}
	if u.APICredentials != nil {
		fields["api_credentials"] = u.APICredentials
	}
	return fields
}
