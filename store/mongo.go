// store/mongo.go
package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on top of a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return "", fmt.Errorf("unmarshal document: %w", err)
	}

	id, _ := d["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		d["_id"] = id
	}

	if _, err := m.db.Collection(collection).InsertOne(ctx, d); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	result, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(partial)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	result, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, collection, id string, out interface{}) error {
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			filter[f.Field] = f.Value
		case OpGt:
			filter[f.Field] = bson.M{"$gt": f.Value}
		case OpLt:
			filter[f.Field] = bson.M{"$lt": f.Value}
		default:
			return fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

type mongoOp struct {
	collection string
	id         string
	partial    map[string]interface{} // nil means delete
}

type mongoBatch struct {
	m   *Mongo
	ops []mongoOp
}

func (m *Mongo) Batch() Batch {
	return &mongoBatch{m: m}
}

func (b *mongoBatch) Update(collection, id string, partial map[string]interface{}) {
	b.ops = append(b.ops, mongoOp{collection: collection, id: id, partial: partial})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, mongoOp{collection: collection, id: id})
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	session, err := b.m.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range b.ops {
			coll := b.m.db.Collection(op.collection)
			if op.partial == nil {
				if _, err := coll.DeleteOne(sc, bson.M{"_id": op.id}); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := coll.UpdateOne(sc, bson.M{"_id": op.id}, bson.M{"$set": bson.M(op.partial)}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (m *Mongo) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := m.db.Collection(collection).Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			select {
			case ch <- struct{}{}:
			default: // consumer is behind, coalesce
			}
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			log.Printf("change stream for %s ended: %v", collection, err)
		}
	}()

	return ch, cancel, nil
}
