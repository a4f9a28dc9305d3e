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

// NoticeQuery is the filter/sort/page input for listing notices.
type NoticeQuery struct {
	Category    string
	IsPublished *bool
	Search      string
	Sort        string
	Order       string
	Skip        int
	Limit       int
}

// Sortable notice fields, client name to stored key. Anything else
// falls back to the default order.
var noticeSortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"viewCount":   "view_count",
	"category":    "category",
	"isImportant": "is_important",
}

// NoticeStore handles notice CRUD in MongoDB.
type NoticeStore struct {
	col *mongo.Collection
}

func NewNoticeStore(db *mongo.Database) *NoticeStore {
	return &NoticeStore{col: db.Collection("notices")}
}

// List returns one page of notices plus the total match count.
// Default order puts important notices first, then most recent.
func (s *NoticeStore) List(ctx context.Context, q NoticeQuery) ([]models.Notice, int64, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.IsPublished != nil {
		filter["is_published"] = *q.IsPublished
	}
	if q.Search != "" {
		filter["$or"] = searchOr(q.Search, "title", "content")
	}

	fallback := bson.D{{Key: "is_important", Value: -1}, {Key: "created_at", Value: -1}}
	opts := options.Find().
		SetSort(sortSpec(noticeSortFields[q.Sort], q.Order, fallback)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	notices := []models.Notice{}
	if err := cur.All(ctx, &notices); err != nil {
		return nil, 0, err
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return notices, total, nil
}

func (s *NoticeStore) Insert(ctx context.Context, n *models.Notice) (string, error) {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return "", fmt.Errorf("notice insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *NoticeStore) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var n models.Notice
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Update replaces the stored document, refreshing updated_at.
func (s *NoticeStore) Update(ctx context.Context, n *models.Notice) error {
	n.UpdatedAt = time.Now()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": n.ID}, n)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NoticeStore) Delete(ctx context.Context, id string) error {
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

// IncrementViewCount bumps the view counter without touching updated_at.
func (s *NoticeStore) IncrementViewCount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// SetPublished flips is_published on every notice in the id set.
func (s *NoticeStore) SetPublished(ctx context.Context, ids []string, published bool) (BulkResult, error) {
	res, err := s.col.UpdateMany(ctx, idFilter(ids),
		bson.M{"$set": bson.M{"is_published": published, "updated_at": time.Now()}})
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// DeleteMany removes every notice in the id set.
func (s *NoticeStore) DeleteMany(ctx context.Context, ids []string) (BulkResult, error) {
	res, err := s.col.DeleteMany(ctx, idFilter(ids))
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{DeletedCount: res.DeletedCount}, nil
}

func (s *NoticeStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// Recent returns the n most recently created notices.
func (s *NoticeStore) Recent(ctx context.Context, n int) ([]models.Notice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(n))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	notices := []models.Notice{}
	if err := cur.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}
