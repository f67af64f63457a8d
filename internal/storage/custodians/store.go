package custodians

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/storage/mongodb"
)

const collectionName = "custodians"

// Store performs custodian CRUD against a single collection.
type Store struct {
	db *mongodb.Store
}

// New creates a custodian store backed by the shared gateway.
func New(db *mongodb.Store) *Store {
	return &Store{db: db}
}

type document struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Code           string             `bson:"code"`
	Description    string             `bson:"description,omitempty"`
	ContactInfo    map[string]string  `bson:"contact_info"`
	APICredentials map[string]string  `bson:"api_credentials"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func toDocument(c domain.Custodian) document {
	return document{
		Name:           c.Name,
		Code:           c.Code,
		Description:    c.Description,
		ContactInfo:    c.ContactInfo,
		APICredentials: c.APICredentials,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (d document) toDomain() domain.Custodian {
	return domain.Custodian{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Code:           d.Code,
		Description:    d.Description,
		ContactInfo:    d.ContactInfo,
		APICredentials: d.APICredentials,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (s *Store) collection(ctx context.Context) (*mongo.Collection, error) {
	return s.db.Collection(ctx, collectionName)
}

// Insert persists a new custodian and returns the store-assigned identifier.
func (s *Store) Insert(ctx context.Context, c domain.Custodian) (string, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(c))
	if err != nil {
		return "", errors.Wrap(err, "insert custodian")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID fetches a custodian by its store-assigned identifier.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Custodian, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Custodian{}, domain.ErrNotFound
	}

	col, err := s.collection(ctx)
	if err != nil {
		return domain.Custodian{}, err
	}

	var doc document
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Custodian{}, domain.ErrNotFound
		}
		return domain.Custodian{}, errors.Wrap(err, "find custodian")
	}
	return doc.toDomain(), nil
}

// List returns custodians paginated by skip and limit.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]domain.Custodian, error) {
	col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "list custodians")
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode custodians")
	}

	out := make([]domain.Custodian, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a $set of the supplied fields to the custodian.
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
		return errors.Wrap(err, "update custodian")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a custodian, reporting whether it existed. Children are
// not cascaded.
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
		return false, errors.Wrap(err, "delete custodian")
	}
	return res.DeletedCount > 0, nil
}
