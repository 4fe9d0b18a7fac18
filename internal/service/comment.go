package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	cache  *cache
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, cache *cache) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

func (s *commentService) Add(ctx context.Context, postID uuid.UUID, authorID uuid.UUID, content string) (*model.Comment, error) {
	input := dto.CreateCommentInput{Content: strings.TrimSpace(content)}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  input.Content,
	}

	createdComment, err := s.repo.Comment.CreateAndAttach(ctx, comment)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to add user(%s) comment to post(%s): %s", authorID.String(), postID.String(), err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidatePost(ctx, postID)

	return createdComment, nil
}
