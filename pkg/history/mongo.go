package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "cropsignal"
	mongoCollection = "ndvi_history"
)

// MongoStore keeps history in a MongoDB collection, one document per
// [Record]. Suited to deployments where the process has no durable disk.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects using a mongodb:// URI and pings the server so a
// bad URI fails at startup rather than on the first sweep.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	coll := client.Database(mongoDatabase).Collection(mongoCollection)
	return &MongoStore{client: client, coll: coll}, nil
}

// Append inserts a record.
func (s *MongoStore) Append(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

// Zone returns a zone's records, oldest first.
func (s *MongoStore) Zone(ctx context.Context, name string) ([]Record, error) {
	return s.find(ctx, bson.M{"zone": name})
}

// All returns every record, oldest first.
func (s *MongoStore) All(ctx context.Context) ([]Record, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]Record, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// LastAlert returns the most recent alerted record time for a zone.
func (s *MongoStore) LastAlert(ctx context.Context, name string) (time.Time, bool, error) {
	filter := bson.M{"zone": name, "alerted": true}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var rec Record
	err := s.coll.FindOne(ctx, filter, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return rec.Date, true, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
