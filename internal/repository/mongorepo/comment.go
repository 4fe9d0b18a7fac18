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
	"go.uber.org/zap"
)

type commentRepo struct {
	db       *mongo.Database
	posts    *mongo.Collection
	comments *mongo.Collection
	logger   *zap.Logger
}

func newCommentRepo(db *mongo.Database, logger *zap.Logger) *commentRepo {
	return &commentRepo{
		db:       db,
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
		logger:   logger,
	}
}

// CreateAndAttach stores the comment, then pushes its id onto the post. The two writes are
// not transactional: if the push fails the comment stays orphaned and is reported, not undone.
func (r *commentRepo) CreateAndAttach(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if err := r.posts.FindOne(ctx, activePost(comment.PostID)).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	seq, err := nextSeq(ctx, r.db, commentsCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	comment.Seq = seq
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.IsActive = true

	if _, err := r.comments.InsertOne(ctx, newCommentDocument(comment)); err != nil {
		return nil, err
	}

	result, err := r.posts.UpdateOne(ctx, activePost(comment.PostID), bson.M{
		"$push": bson.M{"comments": comment.ID.String()},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		r.logger.Sugar().Warnf("comment(%s) orphaned: failed to link to post(%s): %s", comment.ID.String(), comment.PostID.String(), err.Error())
		return nil, err
	}
	if result.MatchedCount == 0 {
		r.logger.Sugar().Warnf("comment(%s) orphaned: post(%s) became inactive", comment.ID.String(), comment.PostID.String())
		return nil, model.ErrNotFound
	}

	return &comment, nil
}

func (r *commentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	cursor, err := r.comments.Find(
		ctx,
		bson.M{"post_id": postID.String(), "is_active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	comments := make([]*model.Comment, 0, len(docs))
	for _, doc := range docs {
		comment, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, nil
}
