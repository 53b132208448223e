package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements DocumentStore on a Mongo database.
type Mongo struct {
	client *mongo.Client
	dbName string
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	return &Mongo{client: client, dbName: dbName}
}

func (m *Mongo) collection(name string) *mongo.Collection {
	return m.client.Database(m.dbName).Collection(name)
}

func (m *Mongo) Get(ctx context.Context, collection, id string, out interface{}) error {
	err := m.collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) error {
	_, err := m.collection(collection).InsertOne(ctx, doc)
	return err
}

func (m *Mongo) Replace(ctx context.Context, collection, id string, doc interface{}) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (m *Mongo) Update(ctx context.Context, collection, id string, updates ...FieldUpdate) error {
	update := bson.M{}
	add := func(operator, path string, value interface{}) {
		doc, ok := update[operator].(bson.M)
		if !ok {
			doc = bson.M{}
			update[operator] = doc
		}
		doc[path] = value
	}

	for _, u := range updates {
		switch u.Op {
		case OpSet:
			add("$set", u.Path, u.Value)
		case OpUnset:
			add("$unset", u.Path, "")
		case OpInc:
			add("$inc", u.Path, u.Value)
		case OpAddToSet:
			add("$addToSet", u.Path, u.Value)
		case OpPull:
			add("$pull", u.Path, u.Value)
		case OpPush:
			add("$push", u.Path, u.Value)
		}
	}
	if len(update) == 0 {
		return nil
	}

	res, err := m.collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Query(ctx context.Context, collection, field string, value interface{}, out interface{}) error {
	cursor, err := m.collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *Mongo) QueryIn(ctx context.Context, collection, field string, values []string, out interface{}) error {
	cursor, err := m.collection(collection).Find(ctx, bson.M{field: bson.M{"$in": values}})
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *Mongo) Find(ctx context.Context, collection string, filter Filter, out interface{}) error {
	query := bson.M{}
	for field, value := range filter.Equals {
		query[field] = value
	}
	for field, pattern := range filter.Regex {
		query[field] = bson.M{"$regex": pattern, "$options": "i"}
	}
	cursor, err := m.collection(collection).Find(ctx, query)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *Mongo) List(ctx context.Context, collection string, out interface{}) error {
	cursor, err := m.collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
