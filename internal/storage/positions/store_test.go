package positions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
)

func TestFilter_Query(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected bson.M
	}{
		{
			name:     "custodian scope only",
			filter:   Filter{CustodianID: "c1"},
			expected: bson.M{"custodian_id": "c1"},
		},
		{
			name:     "portfolio narrowing",
			filter:   Filter{CustodianID: "c1", PortfolioID: "p1"},
			expected: bson.M{"custodian_id": "c1", "portfolio_id": "p1"},
		},
		{
			name:   "portfolio and account narrowing",
			filter: Filter{CustodianID: "c1", PortfolioID: "p1", AccountID: "a1"},
			expected: bson.M{
				"custodian_id": "c1",
				"portfolio_id": "p1",
				"account_id":   "a1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.query())
		})
	}
}

func TestDocumentConversion_RoundTrip(t *testing.T) {
	cost := decimal.NewFromFloat(9500.00)
	pl := decimal.NewFromFloat(455.50)

	pos := domain.Position{
		CustodianID:  "c1",
		PortfolioID:  "p1",
		AccountID:    "a1",
		PositionID:   "ext-p1",
		SecurityID:   "US0378331005",
		SecurityType: "equity",
		Quantity:     decimal.NewFromInt(50),
		MarketValue:  decimal.NewFromFloat(9955.50),
		Currency:     "USD",
		CostBasis:    &cost,
		UnrealizedPL: &pl,
		AsOfDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
	}

	got := toDocument(pos).toDomain()
	got.ID = ""

	assert.Equal(t, pos.SecurityID, got.SecurityID)
	assert.True(t, got.Quantity.Equal(pos.Quantity))
	assert.True(t, got.MarketValue.Equal(pos.MarketValue))
	require.NotNil(t, got.CostBasis)
	assert.True(t, got.CostBasis.Equal(cost))
	require.NotNil(t, got.UnrealizedPL)
	assert.True(t, got.UnrealizedPL.Equal(pl))
	assert.Equal(t, pos.AsOfDate, got.AsOfDate)
}

func TestDocumentConversion_OptionalFieldsAbsent(t *testing.T) {
	pos := domain.Position{
		CustodianID: "c1",
		PositionID:  "ext-p2",
		Quantity:    decimal.NewFromInt(1),
		MarketValue: decimal.NewFromInt(100),
	}

	doc := toDocument(pos)
	assert.Nil(t, doc.CostBasis)
	assert.Nil(t, doc.UnrealizedPL)

	got := doc.toDomain()
	assert.Nil(t, got.CostBasis)
	assert.Nil(t, got.UnrealizedPL)
}
