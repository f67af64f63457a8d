package accounts

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

const collectionName = "accounts"

// Store performs account CRUD against a single collection.
type Store struct {
	db *mongodb.Store
}

// New creates an account store backed by the shared gateway.
func New(db *mongodb.Store) *Store {
	return &Store{db: db}
}

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CustodianID string             `bson:"custodian_id"`
	PortfolioID string             `bson:"portfolio_id"`
	AccountID   string             `bson:"account_id"`
	Name        string             `bson:"name"`
	AccountType string             `bson:"account_type"`
	Currency    string             `bson:"currency"`
	Balance     float64            `bson:"balance"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toDocument(a domain.Account) document {
	return document{
		CustodianID: a.CustodianID,
		PortfolioID: a.PortfolioID,
		AccountID:   a.AccountID,
		Name:        a.Name,
		AccountType: a.AccountType,
		Currency:    a.Currency,
		Balance:     a.Balance.InexactFloat64(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d document) toDomain() domain.Account {
	return domain.Account{
		ID:          d.ID.Hex(),
		CustodianID: d.CustodianID,
		PortfolioID: d.PortfolioID,
		AccountID:   d.AccountID,
		Name:        d.Name,
		AccountType: d.AccountType,
		Currency:    d.Currency,
		Balance:     decimal.NewFromFloat(d.Balance),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) collection(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, collectionName)
}

// Insert persists a new account and returns the store-assigned identifier.
func (s *Store) Insert(ctx context.Context, a domain.Account) (string, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(a))
	if err != nil {
		return "", errors.Wrap(err, "insert account")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID fetches an account by its store-assigned identifier.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Account{}, domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	var doc document
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, errors.Wrap(err, "find account")
	}
	return doc.toDomain(), nil
}

// List returns accounts scoped to a custodian, optionally narrowed to a
// portfolio.
func (s *Store) List(ctx context.Context, custodianID, portfolioID string) ([]domain.Account, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{"custodian_id": custodianID}
	if portfolioID != "" {
		query["portfolio_id"] = portfolioID
	}

	cur, err := col.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode accounts")
	}

	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a $set of the supplied fields to the account.
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
		return errors.Wrap(err, "update account")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an account, reporting whether it existed.
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
		return false, errors.Wrap(err, "delete account")
	}
	return res.DeletedCount > 0, nil
}
