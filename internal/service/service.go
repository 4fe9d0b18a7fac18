package service

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/media"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	MAX_LIMIT     = 100
	DEFAULT_LIMIT = 10
)

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DEFAULT_LIMIT
	}
	if limit > MAX_LIMIT {
		limit = MAX_LIMIT
	}
	return page, limit
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostInput) (*model.Post, error)
	// CreateWithMedia uploads the file first and stores its URL as the post content.
	CreateWithMedia(ctx context.Context, authorID uuid.UUID, input dto.CreatePostInput, upload dto.MediaUpload) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	ToggleLike(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (post *model.Post, liked bool, err error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type Comment interface {
	Add(ctx context.Context, postID uuid.UUID, authorID uuid.UUID, content string) (*model.Comment, error)
}

type Feed interface {
	Query(ctx context.Context, filter model.FeedFilter, page int, limit int) (*model.FeedPage, error)
}

type Service struct {
	Post
	Comment
	Feed
}

func New(logger *zap.Logger, repo *repository.Repository, storage media.Storage) *Service {
	c := newCache(logger, repo.Redis, cacheTTL())
	return &Service{
		Post:    newPostService(logger, repo, storage, c),
		Comment: newCommentService(logger, repo, c),
		Feed:    newFeedService(logger, repo, c),
	}
}

func cacheTTL() time.Duration {
	if ttl := viper.GetDuration("cache.ttl"); ttl > 0 {
		return ttl
	}
	return time.Hour
}
