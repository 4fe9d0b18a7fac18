package repository

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository/memory"
	"github.com/BloggingApp/feed-service/internal/repository/mongorepo"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Post is implemented by every post store. Methods that address a single post only see
// active posts and report model.ErrNotFound otherwise.
type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	// ToggleLike adds or removes userID from the like set in a single atomic update.
	ToggleLike(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Post, error)
	Deactivate(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error
	Find(ctx context.Context, filter model.FeedFilter, limit int, offset int) ([]*model.Post, error)
	Count(ctx context.Context, filter model.FeedFilter) (int64, error)
}

type Comment interface {
	// CreateAndAttach stores the comment and appends its id to the parent post.
	CreateAndAttach(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
}

type Repository struct {
	Post    Post
	Comment Comment
	// Redis is nil when caching is disabled.
	Redis *redisrepo.RedisRepository
}

func NewPostgres(db postgres.DBTX, rdb *redis.Client, logger *zap.Logger) *Repository {
	pg := postgres.New(db, logger)
	return &Repository{
		Post:    pg.Post,
		Comment: pg.Comment,
		Redis:   newRedis(rdb),
	}
}

func NewMongo(db *mongo.Database, rdb *redis.Client, logger *zap.Logger) *Repository {
	mg := mongorepo.New(db, logger)
	return &Repository{
		Post:    mg.Post,
		Comment: mg.Comment,
		Redis:   newRedis(rdb),
	}
}

func NewMemory(rdb *redis.Client) *Repository {
	store := memory.New()
	return &Repository{
		Post:    store,
		Comment: store,
		Redis:   newRedis(rdb),
	}
}

func newRedis(rdb *redis.Client) *redisrepo.RedisRepository {
	if rdb == nil {
		return nil
	}
	return redisrepo.New(rdb)
}
