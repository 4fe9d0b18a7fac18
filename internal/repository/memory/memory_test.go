package memory

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(authorID uuid.UUID, postType model.PostType, tags ...string) model.Post {
	return model.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Type:     postType,
		Caption:  "caption",
		Tags:     tags,
	}
}

func TestToggleLikeIsAtomicPerPost(t *testing.T) {
	store := New()
	ctx := context.Background()

	post, err := store.Create(ctx, newPost(uuid.New(), model.PostTypeBlog))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ToggleLike(ctx, post.ID, uuid.New())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.FindActiveByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 50)
}

func TestFindOrdersByCreatedAtThenInsertion(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := New().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		post, err := store.Create(ctx, newPost(uuid.New(), model.PostTypeBlog))
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}

	posts, err := store.Find(ctx, model.FeedFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestFindOffsetOutOfRange(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, newPost(uuid.New(), model.PostTypeBlog))
		require.NoError(t, err)
	}

	for _, offset := range []int{-16, 3, 100} {
		posts, err := store.Find(ctx, model.FeedFilter{}, 10, offset)
		require.NoError(t, err)
		assert.Empty(t, posts, "offset %d", offset)
	}

	posts, err := store.Find(ctx, model.FeedFilter{}, math.MaxInt, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestFindFiltersAndHidesInactive(t *testing.T) {
	store := New()
	ctx := context.Background()
	authorID := uuid.New()

	image, err := store.Create(ctx, newPost(authorID, model.PostTypeImage, "go"))
	require.NoError(t, err)
	_, err = store.Create(ctx, newPost(authorID, model.PostTypeBlog, "go", "rust"))
	require.NoError(t, err)

	total, _ := store.Count(ctx, model.FeedFilter{Tag: "go"})
	assert.Equal(t, int64(2), total)

	total, _ = store.Count(ctx, model.FeedFilter{Type: model.PostTypeImage})
	assert.Equal(t, int64(1), total)

	require.NoError(t, store.Deactivate(ctx, image.ID, authorID))
	assert.ErrorIs(t, store.Deactivate(ctx, image.ID, authorID), model.ErrNotFound)

	total, _ = store.Count(ctx, model.FeedFilter{Tag: "go"})
	assert.Equal(t, int64(1), total)

	_, err = store.FindActiveByID(ctx, image.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateAndAttach(t *testing.T) {
	store := New()
	ctx := context.Background()
	authorID := uuid.New()

	post, err := store.Create(ctx, newPost(authorID, model.PostTypeBlog))
	require.NoError(t, err)

	first, err := store.CreateAndAttach(ctx, model.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: authorID, Content: "first"})
	require.NoError(t, err)
	second, err := store.CreateAndAttach(ctx, model.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: authorID, Content: "second"})
	require.NoError(t, err)

	got, err := store.FindActiveByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, got.Comments)

	comments, err := store.FindByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	_, err = store.CreateAndAttach(ctx, model.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: authorID, Content: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReturnedPostsAreCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	post, err := store.Create(ctx, newPost(uuid.New(), model.PostTypeBlog, "go"))
	require.NoError(t, err)

	post.Tags[0] = "mutated"

	got, err := store.FindActiveByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Tags)
}
