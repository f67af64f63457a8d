package portfolios

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/mongodb"
)

const collectionName = "portfolios"

// Store performs portfolio CRUD against a single collection.
type Store struct {
	db *mongodb.Store
}

// New creates a portfolio store backed by the shared gateway.
func New(db *mongodb.Store) *Store {
	return &Store{db: db}
}

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CustodianID string             `bson:"custodian_id"`
	PortfolioID string             `bson:"portfolio_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Currency    string             `bson:"currency"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toDocument(p domain.Portfolio) document {
	return document{
		CustodianID: p.CustodianID,
		PortfolioID: p.PortfolioID,
		Name:        p.Name,
		Description: p.Description,
		Currency:    p.Currency,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d document) toDomain() domain.Portfolio {
	return domain.Portfolio{
		ID:          d.ID.Hex(),
		CustodianID: d.CustodianID,
		PortfolioID: d.PortfolioID,
		Name:        d.Name,
		Description: d.Description,
		Currency:    d.Currency,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) collection(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, collectionName)
}

// Insert persists a new portfolio and returns the store-assigned identifier.
func (s *Store) Insert(ctx context.Context, p domain.Portfolio) (string, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(p))
	if err != nil {
		return "", errors.Wrap(err, "insert portfolio")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID fetches a portfolio by its store-assigned identifier.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Portfolio, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Portfolio{}, domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return domain.Portfolio{}, err
	}

	var doc document
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Portfolio{}, domain.ErrNotFound
		}
		return domain.Portfolio{}, errors.Wrap(err, "find portfolio")
	}
	return doc.toDomain(), nil
}

// List returns all portfolios scoped to a custodian.
func (s *Store) List(ctx context.Context, custodianID string) ([]domain.Portfolio, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, bson.M{"custodian_id": custodianID})
	if err != nil {
		return nil, errors.Wrap(err, "list portfolios")
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode portfolios")
	}

	out := make([]domain.Portfolio, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a $set of the supplied fields to the portfolio.
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
		return errors.Wrap(err, "update portfolio")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a portfolio, reporting whether it existed.
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
		return false, errors.Wrap(err, "delete portfolio")
	}
	return res.DeletedCount > 0, nil
}
