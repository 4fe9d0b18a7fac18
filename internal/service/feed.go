package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"go.uber.org/zap"
)

type feedService struct {
	logger *zap.Logger
	repo   *repository.Repository
	cache  *cache
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, cache *cache) Feed {
	return &feedService{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

func (s *feedService) Query(ctx context.Context, filter model.FeedFilter, page int, limit int) (*model.FeedPage, error) {
	page, limit = normalizePage(page, limit)

	var key string
	if version, ok := s.cache.feedVersion(ctx); ok {
		key = redisrepo.FeedKey(version, filterKey(filter), page, limit)
		if cachedPage, ok := cacheGet[model.FeedPage](ctx, s.cache, key); ok {
			return cachedPage, nil
		}
	}

	total, err := s.repo.Post.Count(ctx, filter)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count posts (%s): %s", filterKey(filter), err.Error())
		return nil, ErrInternal
	}

	result := &model.FeedPage{
		Posts: []*model.Post{},
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pageCount(total, limit),
	}

	// Past the last page the offset is not meaningful and may overflow.
	if int64(page) > result.Pages {
		return result, nil
	}

	posts, err := s.repo.Post.Find(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts (%s) page(%d): %s", filterKey(filter), page, err.Error())
		return nil, ErrInternal
	}
	result.Posts = posts

	if key != "" {
		s.cache.set(ctx, key, result)
	}

	return result, nil
}

func pageCount(total int64, limit int) int64 {
	l := int64(limit)
	return (total + l - 1) / l
}

func filterKey(filter model.FeedFilter) string {
	switch {
	case filter.Type != "":
		return "type=" + string(filter.Type)
	case filter.Tag != "":
		return "tag=" + filter.Tag
	default:
		return "all"
	}
}
