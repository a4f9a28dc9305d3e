package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BulkResult reports the outcome of a set-based mutation. Ids that
// matched nothing are not an error; the counts tell the story.
type BulkResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	DeletedCount  int64 `json:"deletedCount,omitempty"`
}

// objectIDs converts hex ids to ObjectIDs, dropping malformed ones.
// A bad id in a bulk set simply matches nothing.
func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}

// idFilter builds an {_id: {$in: ...}} filter for a bulk id set.
func idFilter(ids []string) bson.M {
	return bson.M{"_id": bson.M{"$in": objectIDs(ids)}}
}

// searchOr builds a case-insensitive substring match over the given
// text fields.
func searchOr(search string, fields ...string) bson.A {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return or
}

// sortSpec maps an explicit sort field and order to a Mongo sort
// document, falling back to the given default when no field is named.
func sortSpec(field, order string, fallback bson.D) bson.D {
	if field == "" {
		return fallback
	}
	dir := -1
	if order == "asc" {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}
