package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCachedService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(zap.NewNop(), repository.NewMemory(rdb), &fakeStorage{}), mr
}

func TestFindByIDIsCachedAndInvalidated(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	post, err := svc.Post.Create(ctx, uuid.New(), blogInput("Hi", ""))
	require.NoError(t, err)

	_, err = svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisrepo.PostKey(post.ID, 0)))

	_, err = svc.Comment.Add(ctx, post.ID, uuid.New(), "nice")
	require.NoError(t, err)
	assert.False(t, mr.Exists(redisrepo.PostKey(post.ID, 0)))

	version, err := mr.Get(redisrepo.PostVersionKey(post.ID))
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	full, err := svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, full.Comments, 1)
	assert.True(t, mr.Exists(redisrepo.PostKey(post.ID, 1)))
}

// racingPosts runs afterLookup once, between the post lookup and the cache write.
type racingPosts struct {
	repository.Post
	afterLookup func()
}

func (r *racingPosts) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := r.Post.FindActiveByID(ctx, id)
	if hook := r.afterLookup; hook != nil {
		r.afterLookup = nil
		hook()
	}
	return post, err
}

func TestFindByIDDoesNotCacheOverConcurrentDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := repository.NewMemory(rdb)
	posts := &racingPosts{Post: repo.Post}
	svc := New(zap.NewNop(), &repository.Repository{Post: posts, Comment: repo.Comment, Redis: repo.Redis}, &fakeStorage{})
	ctx := context.Background()

	authorID := uuid.New()
	post, err := svc.Post.Create(ctx, authorID, blogInput("Hi", ""))
	require.NoError(t, err)

	posts.afterLookup = func() {
		require.NoError(t, svc.Post.Delete(ctx, post.ID, authorID))
	}

	// the lookup saw the post before the delete landed
	full, err := svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, full.Post.ID)

	_, err = svc.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestFeedCacheFollowsVersion(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	_, err := svc.Post.Create(ctx, uuid.New(), blogInput("one", ""))
	require.NoError(t, err)

	page, err := svc.Feed.Query(ctx, model.FeedFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	version, err := mr.Get(redisrepo.FEED_VERSION_KEY)
	require.NoError(t, err)
	assert.Equal(t, "1", version)
	assert.True(t, mr.Exists(redisrepo.FeedKey(1, "all", 1, 10)))

	_, err = svc.Post.Create(ctx, uuid.New(), blogInput("two", ""))
	require.NoError(t, err)

	page, err = svc.Feed.Query(ctx, model.FeedFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestCacheFailureFallsThrough(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	post, err := svc.Post.Create(ctx, uuid.New(), blogInput("Hi", ""))
	require.NoError(t, err)

	mr.Close()

	full, err := svc.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, full.Post.ID)

	page, err := svc.Feed.Query(ctx, model.FeedFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestFilterKey(t *testing.T) {
	assert.Equal(t, "all", filterKey(model.FeedFilter{}))
	assert.Equal(t, "type=video", filterKey(model.FeedFilter{Type: model.PostTypeVideo}))
	assert.Equal(t, "tag=go", filterKey(model.FeedFilter{Tag: "go"}))
}
