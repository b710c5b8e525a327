package mongodb

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/evonft/go-evonft/service/persist"
	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storage wraps one mongo collection with the schema version its documents
// are written at
type storage struct {
	version    int64
	collection *mongo.Collection
}

func newStorage(db *mongo.Database, version int64, collName string) *storage {
	return &storage{version: version, collection: db.Collection(collName)}
}

// insert inserts a document, filling out _id, created_at and last_updated
func (m *storage) insert(ctx context.Context, insert interface{}, opts ...*options.InsertOneOptions) (persist.DBID, error) {

	now := primitive.NewDateTimeFromTime(time.Now())
	asMap, err := structToBsonMap(insert)
	if err != nil {
		return "", err
	}
	asMap["_id"] = string(generateID())
	asMap["created_at"] = now
	asMap["last_updated"] = now
	asMap["version"] = m.version

	res, err := m.collection.InsertOne(ctx, asMap, opts...)
	if err != nil {
		return "", err
	}

	return persist.DBID(res.InsertedID.(string)), nil
}

// update applies a $set of the given struct's bson fields to every document
// matching the query, refreshing last_updated
func (m *storage) update(ctx context.Context, query bson.M, update interface{}, opts ...*options.UpdateOptions) error {

	asMap, err := structToBsonMap(update)
	if err != nil {
		return err
	}
	asMap["last_updated"] = primitive.NewDateTimeFromTime(time.Now())

	result, err := m.collection.UpdateMany(ctx, query, bson.D{{Key: "$set", Value: asMap}}, opts...)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return persist.DocumentNotFoundError{}
	}

	return nil
}

// push appends values to an array field of the matched documents
func (m *storage) push(ctx context.Context, query bson.M, field string, value interface{}) error {

	up := bson.D{
		{Key: "$push", Value: bson.M{field: bson.M{"$each": value}}},
		{Key: "$set", Value: bson.M{"last_updated": primitive.NewDateTimeFromTime(time.Now())}},
	}

	result, err := m.collection.UpdateMany(ctx, query, up)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return persist.DocumentNotFoundError{}
	}

	return nil
}

// find decodes all non-deleted documents matching the filter into result,
// which must be a pointer to a slice
func (m *storage) find(ctx context.Context, filter bson.M, result interface{}, opts ...*options.FindOptions) error {

	filter["deleted"] = false

	cur, err := m.collection.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, result)
}

// findOne decodes a single non-deleted document matching the filter into
// result, returning mongo.ErrNoDocuments when none matches
func (m *storage) findOne(ctx context.Context, filter bson.M, result interface{}, opts ...*options.FindOneOptions) error {
	filter["deleted"] = false
	return m.collection.FindOne(ctx, filter, opts...).Decode(result)
}

// findOneAndUpdate applies update to the single non-deleted document matching
// the filter and decodes the post-update document into result
func (m *storage) findOneAndUpdate(ctx context.Context, filter bson.M, update interface{}, result interface{}) error {
	filter["deleted"] = false
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	return m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(result)
}

// count counts non-deleted documents matching the filter
func (m *storage) count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error) {
	filter["deleted"] = false
	return m.collection.CountDocuments(ctx, filter, opts...)
}

func generateID() persist.DBID {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(err)
	}
	return persist.DBID(id.String())
}

// structToBsonMap flattens a struct into a bson.M keyed by bson tags,
// honoring omitempty and skipping "-"
func structToBsonMap(v interface{}) (bson.M, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%v is not a struct, is of type %T", v, v)
	}
	bsonMap := bson.M{}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		tag, ok := val.Type().Field(i).Tag.Lookup("bson")
		if !ok {
			continue
		}
		spl := strings.Split(tag, ",")
		if spl[0] == "-" {
			continue
		}
		if len(spl) > 1 && spl[1] == "omitempty" && isValueEmpty(field) {
			continue
		}
		if field.CanInterface() {
			bsonMap[spl[0]] = field.Interface()
		}
	}
	return bsonMap, nil
}

func isValueEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
