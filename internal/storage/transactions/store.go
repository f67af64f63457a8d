package transactions

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

const collectionName = "transactions"

// Store performs transaction CRUD against a single collection.
type Store struct {
	db *mongodb.Store
}

// New creates a transaction store backed by the shared gateway.
func New(db *mongodb.Store) *Store {
	return &Store{db: db}
}

// Filter narrows a transaction listing. CustodianID is the mandatory scope;
// identifiers are ANDed in when set and the date range bounds trade_date
// inclusively.
type Filter struct {
	CustodianID string
	PortfolioID string
	AccountID   string
	From        *time.Time
	To          *time.Time
}

func (f Filter) query() bson.M {
	query := bson.M{"custodian_id": f.CustodianID}
	if f.PortfolioID != "" {
		query["portfolio_id"] = f.PortfolioID
	}
	if f.AccountID != "" {
		query["account_id"] = f.AccountID
	}
	if f.From != nil || f.To != nil {
		tradeDate := bson.M{}
		if f.From != nil {
			tradeDate["$gte"] = *f.From
		}
		if f.To != nil {
			tradeDate["$lte"] = *f.To
		}
		query["trade_date"] = tradeDate
	}
	return query
}

type document struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CustodianID     string             `bson:"custodian_id"`
	PortfolioID     string             `bson:"portfolio_id"`
	AccountID       string             `bson:"account_id"`
	TransactionID   string             `bson:"transaction_id"`
	TransactionType string             `bson:"transaction_type"`
	SecurityID      *string            `bson:"security_id,omitempty"`
	SecurityType    *string            `bson:"security_type,omitempty"`
	Quantity        *float64           `bson:"quantity,omitempty"`
	Price           *float64           `bson:"price,omitempty"`
	Amount          float64            `bson:"amount"`
	Currency        string             `bson:"currency"`
	TradeDate       time.Time          `bson:"trade_date"`
	SettlementDate  *time.Time         `bson:"settlement_date,omitempty"`
	Description     *string            `bson:"description,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
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

func toDocument(t domain.Transaction) document {
	return document{
		CustodianID:     t.CustodianID,
		PortfolioID:     t.PortfolioID,
		AccountID:       t.AccountID,
		TransactionID:   t.TransactionID,
		TransactionType: t.TransactionType,
		SecurityID:      t.SecurityID,
		SecurityType:    t.SecurityType,
		Quantity:        floatPtr(t.Quantity),
		Price:           floatPtr(t.Price),
		Amount:          t.Amount.InexactFloat64(),
		Currency:        t.Currency,
		TradeDate:       t.TradeDate,
		SettlementDate:  t.SettlementDate,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (d document) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:              d.ID.Hex(),
		CustodianID:     d.CustodianID,
		PortfolioID:     d.PortfolioID,
		AccountID:       d.AccountID,
		TransactionID:   d.TransactionID,
		TransactionType: d.TransactionType,
		SecurityID:      d.SecurityID,
		SecurityType:    d.SecurityType,
		Quantity:        decimalPtr(d.Quantity),
		Price:           decimalPtr(d.Price),
		Amount:          decimal.NewFromFloat(d.Amount),
		Currency:        d.Currency,
		TradeDate:       d.TradeDate,
		SettlementDate:  d.SettlementDate,
		Description:     d.Description,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (s *Store) collection(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, collectionName)
}

// Insert persists a new transaction and returns the store-assigned identifier.
func (s *Store) Insert(ctx context.Context, t domain.Transaction) (string, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(t))
	if err != nil {
		return "", errors.Wrap(err, "insert transaction")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID fetches a transaction by its store-assigned identifier.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Transaction{}, domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	var doc document
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, errors.Wrap(err, "find transaction")
	}
	return doc.toDomain(), nil
}

// List returns transactions matching the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]domain.Transaction, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, f.query())
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode transactions")
	}

	out := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a $set of the supplied fields to the transaction.
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
		return errors.Wrap(err, "update transaction")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a transaction, reporting whether it existed.
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
		return false, errors.Wrap(err, "delete transaction")
	}
	return res.DeletedCount > 0, nil
}
