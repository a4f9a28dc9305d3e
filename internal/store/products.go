package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandeul/website-backend/internal/models"
)

// ProductQuery is the filter/sort/page input for listing products.
type ProductQuery struct {
	Category string
	Brand    string
	IsActive *bool
	Search   string
	Sort     string
	Order    string
	Skip     int
	Limit    int
}

var productSortFields = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"name":         "name",
	"brand":        "brand",
	"category":     "category",
	"displayOrder": "display_order",
}

// ProductStore handles product CRUD in MongoDB.
type ProductStore struct {
	col *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{col: db.Collection("products")}
}

// List returns one page of products plus the total match count.
func (s *ProductStore) List(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	if q.IsActive != nil {
		filter["is_active"] = *q.IsActive
	}
	if q.Search != "" {
		filter["$or"] = searchOr(q.Search, "name", "brand", "description")
	}

	fallback := bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: -1}}
	opts := options.Find().
		SetSort(sortSpec(productSortFields[q.Sort], q.Order, fallback)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) (string, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return "", fmt.Errorf("product insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p models.Product
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product document. Hard delete; the handler is
// responsible for cleaning up referenced blobs first.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips is_active on every product in the id set.
func (s *ProductStore) SetActive(ctx context.Context, ids []string, active bool) (BulkResult, error) {
	res, err := s.col.UpdateMany(ctx, idFilter(ids),
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}})
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// DeleteMany removes every product in the id set.
func (s *ProductStore) DeleteMany(ctx context.Context, ids []string) (BulkResult, error) {
	res, err := s.col.DeleteMany(ctx, idFilter(ids))
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{DeletedCount: res.DeletedCount}, nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
