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

// ContactQuery is the filter/sort/page input for listing inquiries.
type ContactQuery struct {
	Status string
	IsRead *bool
	Search string
	Sort   string
	Order  string
	Skip   int
	Limit  int
}

var contactSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"subject":   "subject",
}

// ContactStore handles contact-inquiry CRUD in MongoDB.
type ContactStore struct {
	col *mongo.Collection
}

func NewContactStore(db *mongo.Database) *ContactStore {
	return &ContactStore{col: db.Collection("contacts")}
}

// List returns one page of inquiries plus the total match count.
func (s *ContactStore) List(ctx context.Context, q ContactQuery) ([]models.Contact, int64, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.IsRead != nil {
		filter["is_read"] = *q.IsRead
	}
	if q.Search != "" {
		filter["$or"] = searchOr(q.Search, "name", "email", "subject", "message")
	}

	fallback := bson.D{{Key: "created_at", Value: -1}}
	opts := options.Find().
		SetSort(sortSpec(contactSortFields[q.Sort], q.Order, fallback)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	contacts := []models.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, 0, err
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (s *ContactStore) Insert(ctx context.Context, c *models.Contact) (string, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return "", fmt.Errorf("contact insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *ContactStore) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var c models.Contact
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// MarkRead flags an inquiry as read without touching updated_at.
func (s *ContactStore) MarkRead(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// SetStatus updates the workflow status of one inquiry.
func (s *ContactStore) SetStatus(ctx context.Context, id, status string) error {
	return s.setField(ctx, id, "status", status)
}

// SetAssignee assigns or, with nil, unassigns an inquiry.
func (s *ContactStore) SetAssignee(ctx context.Context, id string, assignee *string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if assignee == nil {
		update["$unset"] = bson.M{"assigned_to": ""}
	} else {
		update["$set"].(bson.M)["assigned_to"] = *assignee
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushResponse appends an admin reply to an inquiry.
func (s *ContactStore) PushResponse(ctx context.Context, id string, resp models.Response) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"responses": resp},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContactStore) setField(ctx context.Context, id, field string, value interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusMany updates the status of every inquiry in the id set.
func (s *ContactStore) SetStatusMany(ctx context.Context, ids []string, status string) (BulkResult, error) {
	return s.updateMany(ctx, ids, bson.M{"status": status})
}

// SetAssigneeMany assigns (or with nil, unassigns) every inquiry in
// the id set.
func (s *ContactStore) SetAssigneeMany(ctx context.Context, ids []string, assignee *string) (BulkResult, error) {
	if assignee == nil {
		res, err := s.col.UpdateMany(ctx, idFilter(ids), bson.M{
			"$unset": bson.M{"assigned_to": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		})
		if err != nil {
			return BulkResult{}, err
		}
		return BulkResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
	}
	return s.updateMany(ctx, ids, bson.M{"assigned_to": *assignee})
}

// SetReadMany flips is_read on every inquiry in the id set.
func (s *ContactStore) SetReadMany(ctx context.Context, ids []string, read bool) (BulkResult, error) {
	return s.updateMany(ctx, ids, bson.M{"is_read": read})
}

// DeleteMany removes every inquiry in the id set.
func (s *ContactStore) DeleteMany(ctx context.Context, ids []string) (BulkResult, error) {
	res, err := s.col.DeleteMany(ctx, idFilter(ids))
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{DeletedCount: res.DeletedCount}, nil
}

func (s *ContactStore) updateMany(ctx context.Context, ids []string, fields bson.M) (BulkResult, error) {
	fields["updated_at"] = time.Now()
	res, err := s.col.UpdateMany(ctx, idFilter(ids), bson.M{"$set": fields})
	if err != nil {
		return BulkResult{}, err
	}
	return BulkResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (s *ContactStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// CountUnread counts inquiries not yet read by an admin.
func (s *ContactStore) CountUnread(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"is_read": false})
}

// Recent returns the n most recently created inquiries.
func (s *ContactStore) Recent(ctx context.Context, n int) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(n))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	contacts := []models.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
