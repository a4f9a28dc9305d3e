package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sandeul/website-backend/internal/models"
)

// SettingStore handles site-settings documents in MongoDB. Settings
// are keyed by type; there is at most one document per type.
type SettingStore struct {
	col *mongo.Collection
}

func NewSettingStore(db *mongo.Database) *SettingStore {
	return &SettingStore{col: db.Collection("settings")}
}

// All returns every settings document.
func (s *SettingStore) All(ctx context.Context) ([]models.Setting, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	settings := []models.Setting{}
	if err := cur.All(ctx, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GetByType returns the settings document for one type.
func (s *SettingStore) GetByType(ctx context.Context, settingType string) (*models.Setting, error) {
	var setting models.Setting
	if err := s.col.FindOne(ctx, bson.M{"type": settingType}).Decode(&setting); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert creates or replaces the data for one settings type.
func (s *SettingStore) Upsert(ctx context.Context, settingType string, data map[string]interface{}, updatedBy string) (*models.Setting, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"data":       data,
			"updated_by": updatedBy,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var setting models.Setting
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"type": settingType}, update, opts).Decode(&setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
