package positions

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/mongodb"
)

const collectionName = "positions"

// Store performs position CRUD against a single collection.
type Store struct {
	db *mongodb.Store
}

// New creates a position store backed by the shared gateway.
func New(db *mongodb.Store) *Store {
	return &Store{db: db}
}

// Filter narrows a position listing. CustodianID is the mandatory scope;
// the rest are ANDed in when set.
type Filter struct {
	CustodianID string
	PortfolioID string
	AccountID   string
}

func (f Filter) query() bson.M {
	query := bson.M{"custodian_id": f.CustodianID}
	if f.PortfolioID != "" {
		query["portfolio_id"] = f.PortfolioID
	}
	if f.AccountID != "" {
		query["account_id"] = f.AccountID
	}
	return query
}

type document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CustodianID  string             `bson:"custodian_id"`
	PortfolioID  string             `bson:"portfolio_id"`
	AccountID    string             `bson:"account_id"`
	PositionID   string             `bson:"position_id"`
	SecurityID   string             `bson:"security_id"`
	SecurityType string             `bson:"security_type"`
	Quantity     float64            `bson:"quantity"`
	MarketValue  float64            `bson:"market_value"`
	Currency     string             `bson:"currency"`
	CostBasis    *float64           `bson:"cost_basis,omitempty"`
	UnrealizedPL *float64           `bson:"unrealized_pl,omitempty"`
	AsOfDate     time.Time          `bson:"as_of_date"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func toDocument(p domain.Position) document {
	return document{
		CustodianID:  p.CustodianID,
		PortfolioID:  p.PortfolioID,
		AccountID:    p.AccountID,
		PositionID:   p.PositionID,
		SecurityID:   p.SecurityID,
		SecurityType: p.SecurityType,
		Quantity:     p.Quantity.InexactFloat64(),
		MarketValue:  p.MarketValue.InexactFloat64(),
		Currency:     p.Currency,
		CostBasis:    floatPtr(p.CostBasis),
		UnrealizedPL: floatPtr(p.UnrealizedPL),
		AsOfDate:     p.AsOfDate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (d document) toDomain() domain.Position {
	return domain.Position{
		ID:           d.ID.Hex(),
		CustodianID:  d.CustodianID,
		PortfolioID:  d.PortfolioID,
		AccountID:    d.AccountID,
		PositionID:   d.PositionID,
		SecurityID:   d.SecurityID,
		SecurityType: d.SecurityType,
		Quantity:     decimal.NewFromFloat(d.Quantity),
		MarketValue:  decimal.NewFromFloat(d.MarketValue),
		Currency:     d.Currency,
		CostBasis:    decimalPtr(d.CostBasis),
		UnrealizedPL: decimalPtr(d.UnrealizedPL),
		AsOfDate:     d.AsOfDate,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (s *Store) collection(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, collectionName)
}

// Insert persists a new position and returns the store-assigned identifier.
func (s *Store) Insert(ctx context.Context, p domain.Position) (string, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(p))
	if err != nil {
		return "", errors.Wrap(err, "insert position")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID fetches a position by its store-assigned identifier.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Position, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Position{}, domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return domain.Position{}, err
	}

	var doc document
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Position{}, domain.ErrNotFound
		}
		return domain.Position{}, errors.Wrap(err, "find position")
	}
	return doc.toDomain(), nil
}

// List returns positions matching the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]domain.Position, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, f.query())
	if err != nil {
		return nil, errors.Wrap(err, "list positions")
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode positions")
	}

	out := make([]domain.Position, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a $set of the supplied fields to the position.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return err
	}

	res, err := col.UpdateByID(ctx, oid, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return errors.Wrap(err, "update position")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a position, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	col, err := s.collection(ctx)
	if err != nil {
		return false, err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, errors.Wrap(err, "delete position")
	}
	return res.DeletedCount > 0, nil
}
