package mongorepo

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"
	countersCollection = "counters"
)

type MongoRepository struct {
	Post    *postRepo
	Comment *commentRepo
}

func New(db *mongo.Database, logger *zap.Logger) *MongoRepository {
	return &MongoRepository{
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db, logger),
	}
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}); err != nil {
		return err
	}

	_, err := db.Collection(commentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "seq", Value: 1}},
	})
	return err
}

// nextSeq hands out the insertion sequence used to break created_at ties.
func nextSeq(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := db.Collection(countersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}
