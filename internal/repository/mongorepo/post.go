package mongorepo

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

func newPostRepo(db *mongo.Database) *postRepo {
	return &postRepo{
		db:  db,
		col: db.Collection(postsCollection),
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	seq, err := nextSeq(ctx, r.db, postsCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	post.Seq = seq
	post.CreatedAt = now
	post.UpdatedAt = now
	post.IsActive = true
	post.Likes = []uuid.UUID{}
	post.Comments = []uuid.UUID{}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := r.col.InsertOne(ctx, newPostDocument(post)); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var doc postDocument
	if err := r.col.FindOne(ctx, activePost(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return doc.toModel()
}

func (r *postRepo) ToggleLike(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Post, error) {
	user := userID.String()

	// Pipeline update: membership test and mutation run server side in one document write.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{user, "$likes"}}},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: "$likes"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", user}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{"$likes", bson.A{user}}}},
			}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}

	var doc postDocument
	err := r.col.FindOneAndUpdate(
		ctx,
		activePost(id),
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return doc.toModel()
}

func (r *postRepo) Deactivate(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	filter := activePost(id)
	filter["author_id"] = authorID.String()

	result, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *postRepo) Find(ctx context.Context, filter model.FeedFilter, limit int, offset int) ([]*model.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, feedFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func (r *postRepo) Count(ctx context.Context, filter model.FeedFilter) (int64, error) {
	return r.col.CountDocuments(ctx, feedFilter(filter))
}

func activePost(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "is_active": true}
}

func feedFilter(filter model.FeedFilter) bson.M {
	m := bson.M{"is_active": true}
	if filter.Type != "" {
		m["type"] = string(filter.Type)
	}
	if filter.Tag != "" {
		m["tags"] = filter.Tag
	}
	return m
}
