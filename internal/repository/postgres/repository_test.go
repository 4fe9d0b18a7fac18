package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var postColumnNames = []string{
	"id", "seq", "author_id", "type", "caption", "content", "media_url",
	"tags", "likes", "comment_ids", "is_active", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, New(mock, zap.NewNop())
}

func blogRow(mock pgxmock.PgxPoolIface, id uuid.UUID, authorID uuid.UUID, likes []uuid.UUID) *pgxmock.Rows {
	now := time.Now().UTC()
	return mock.NewRows(postColumnNames).AddRow(
		id, int64(1), authorID, "blog", "Hi", "World", nil,
		[]string{"go"}, likes, []uuid.UUID{}, true, now, now,
	)
}

func TestPostCreate(t *testing.T) {
	mock, repo := newMockRepo(t)

	post := model.Post{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Type:     model.PostTypeBlog,
		Caption:  "Hi",
		Content:  "World",
		Tags:     []string{"go"},
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts(")).
		WithArgs(post.ID, post.AuthorID, "blog", "Hi", "World", pgxmock.AnyArg(), []string{"go"}, pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"seq"}).AddRow(int64(42)))

	created, err := repo.Post.Create(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.Seq)
	assert.True(t, created.IsActive)
	assert.Empty(t, created.Likes)
	assert.Empty(t, created.Comments)
	assert.False(t, created.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostFindActiveByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE id = $1 AND is_active")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Post.FindActiveByID(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostToggleLike(t *testing.T) {
	mock, repo := newMockRepo(t)
	id, authorID, userID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET")).
		WithArgs(id, userID).
		WillReturnRows(blogRow(mock, id, authorID, []uuid.UUID{userID}))

	post, err := repo.Post.ToggleLike(context.Background(), id, userID)
	require.NoError(t, err)

	assert.Equal(t, id, post.ID)
	assert.Equal(t, model.PostTypeBlog, post.Type)
	assert.Nil(t, post.MediaURL)
	assert.True(t, post.HasLiked(userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeactivate(t *testing.T) {
	mock, repo := newMockRepo(t)
	id, authorID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET is_active = FALSE")).
		WithArgs(id, authorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET is_active = FALSE")).
		WithArgs(id, authorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Post.Deactivate(context.Background(), id, authorID))
	assert.ErrorIs(t, repo.Post.Deactivate(context.Background(), id, authorID), model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostFindByTag(t *testing.T) {
	mock, repo := newMockRepo(t)
	id, authorID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active AND $1 = ANY(tags) ORDER BY created_at DESC, seq DESC LIMIT $2 OFFSET $3")).
		WithArgs("go", 10, 20).
		WillReturnRows(blogRow(mock, id, authorID, []uuid.UUID{}))

	posts, err := repo.Post.Find(context.Background(), model.FeedFilter{Tag: "go"}, 10, 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"go"}, posts[0].Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCountByType(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE is_active AND type = $1")).
		WithArgs("image").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(23)))

	total, err := repo.Post.Count(context.Background(), model.FeedFilter{Type: model.PostTypeImage})
	require.NoError(t, err)
	assert.Equal(t, int64(23), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedWhere(t *testing.T) {
	where, args := feedWhere(model.FeedFilter{})
	assert.Equal(t, "is_active", where)
	assert.Empty(t, args)

	where, args = feedWhere(model.FeedFilter{Type: model.PostTypeVideo, Tag: "cats"})
	assert.Equal(t, "is_active AND type = $1 AND $2 = ANY(tags)", where)
	assert.Equal(t, []any{"video", "cats"}, args)
}

func TestCommentCreateAndAttach(t *testing.T) {
	mock, repo := newMockRepo(t)

	comment := model.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: uuid.New(), Content: "nice"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET comment_ids = array_append")).
		WithArgs(comment.PostID, comment.ID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments(")).
		WithArgs(comment.ID, comment.PostID, comment.AuthorID, "nice", pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"seq"}).AddRow(int64(7)))
	mock.ExpectCommit()

	created, err := repo.Comment.CreateAndAttach(context.Background(), comment)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.Seq)
	assert.True(t, created.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentCreateAndAttachInactivePost(t *testing.T) {
	mock, repo := newMockRepo(t)

	comment := model.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorID: uuid.New(), Content: "nice"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET comment_ids = array_append")).
		WithArgs(comment.PostID, comment.ID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := repo.Comment.CreateAndAttach(context.Background(), comment)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentFindByPost(t *testing.T) {
	mock, repo := newMockRepo(t)
	postID := uuid.New()
	now := time.Now().UTC()

	rows := mock.NewRows([]string{"id", "seq", "post_id", "author_id", "content", "is_active", "created_at", "updated_at"}).
		AddRow(uuid.New(), int64(1), postID, uuid.New(), "first", true, now, now).
		AddRow(uuid.New(), int64(2), postID, uuid.New(), "second", true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM comments")).WithArgs(postID).WillReturnRows(rows)

	comments, err := repo.Comment.FindByPost(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
