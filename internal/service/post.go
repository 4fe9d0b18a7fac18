package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/media"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type postService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	storage media.Storage
	cache   *cache
}

func newPostService(logger *zap.Logger, repo *repository.Repository, storage media.Storage, cache *cache) Post {
	return &postService{
		logger:  logger,
		repo:    repo,
		storage: storage,
		cache:   cache,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostInput) (*model.Post, error) {
	input.Caption = strings.TrimSpace(input.Caption)
	input.MediaURL = strings.TrimSpace(input.MediaURL)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	post := model.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Type:     input.Type,
		Caption:  input.Caption,
		Tags:     utils.NormalizeTags(input.Tags),
	}
	if input.Type.HasMedia() {
		mediaURL := input.MediaURL
		post.Content = mediaURL
		post.MediaURL = &mediaURL
	} else {
		post.Content = strings.TrimSpace(input.Content)
	}

	createdPost, err := s.repo.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) %s post: %s", authorID.String(), input.Type, err.Error())
		return nil, ErrInternal
	}

	s.cache.invalidateFeed(ctx)

	return createdPost, nil
}

func (s *postService) CreateWithMedia(ctx context.Context, authorID uuid.UUID, input dto.CreatePostInput, upload dto.MediaUpload) (*model.Post, error) {
	input.Caption = strings.TrimSpace(input.Caption)
	// The URL is only known after the upload.
	if err := validateStructExcept(input, "MediaURL"); err != nil {
		return nil, err
	}
	if !input.Type.HasMedia() {
		return nil, newValidationError("type", "type must be image or video for media posts")
	}

	if upload.File == nil {
		return nil, ErrFileRequired
	}
	if upload.Size > media.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	sniffed, err := media.Detect(upload.File)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return nil, fmt.Errorf("%w: expected %s", ErrUnsupportedMedia, input.Type)
		}
		s.logger.Sugar().Errorf("failed to read uploaded file(%s): %s", upload.FileName, err.Error())
		return nil, ErrInternal
	}
	if sniffed.Category != string(input.Type) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedMedia, input.Type, sniffed.MIME)
	}

	object, err := s.storage.Upload(ctx, sniffed.Reader, sniffed.MIME, upload.FileName)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upload user(%s) %s file(%s): %s", authorID.String(), input.Type, upload.FileName, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrMediaUploadFailed, err)
	}

	input.MediaURL = object.URL
	createdPost, err := s.Create(ctx, authorID, input)
	if err != nil {
		s.logger.Sugar().Warnf("media object(%s) orphaned: failed to persist user(%s) %s post: %s", object.Key, authorID.String(), input.Type, err.Error())
		return nil, err
	}

	return createdPost, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	var key string
	if version, ok := s.cache.postVersion(ctx, id); ok {
		key = redisrepo.PostKey(id, version)
		if cachedPost, ok := cacheGet[model.FullPost](ctx, s.cache, key); ok {
			return cachedPost, nil
		}
	}

	post, err := s.repo.Post.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Comment.FindByPost(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) comments: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	fullPost := &model.FullPost{
		Post:     *post,
		Comments: comments,
	}
	if key != "" {
		s.cache.set(ctx, key, fullPost)
	}

	return fullPost, nil
}

func (s *postService) ToggleLike(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*model.Post, bool, error) {
	post, err := s.repo.Post.ToggleLike(ctx, id, actorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, false, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to toggle user(%s) like on post(%s): %s", actorID.String(), id.String(), err.Error())
		return nil, false, ErrInternal
	}

	s.cache.invalidatePost(ctx, id)

	return post, post.HasLiked(actorID), nil
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	post, err := s.repo.Post.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if post.AuthorID != actorID {
		return ErrNotPostAuthor
	}

	if err := s.repo.Post.Deactivate(ctx, id, actorID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to deactivate post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	s.cache.invalidatePost(ctx, id)

	return nil
}
