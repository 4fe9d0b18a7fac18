package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = "id, seq, author_id, type, caption, content, media_url, tags, likes, comment_ids, is_active, created_at, updated_at"

type postRepo struct {
	db DBTX
}

func newPostRepo(db DBTX) *postRepo {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.IsActive = true
	post.Likes = []uuid.UUID{}
	post.Comments = []uuid.UUID{}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(id, author_id, type, caption, content, media_url, tags, is_active, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)
		RETURNING seq`,
		post.ID,
		post.AuthorID,
		string(post.Type),
		post.Caption,
		post.Content,
		post.MediaURL,
		post.Tags,
		now,
	).Scan(&post.Seq); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	row := r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1 AND is_active", id)
	return scanPost(row)
}

func (r *postRepo) ToggleLike(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Post, error) {
	// Single statement: the CASE is evaluated against the locked, latest row version.
	row := r.db.QueryRow(
		ctx,
		`UPDATE posts SET
		likes = CASE WHEN $2::uuid = ANY(likes) THEN array_remove(likes, $2::uuid) ELSE array_append(likes, $2::uuid) END,
		updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+postColumns,
		id,
		userID,
	)
	return scanPost(row)
}

func (r *postRepo) Deactivate(ctx context.Context, id uuid.UUID, authorID uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET is_active = FALSE, updated_at = now() WHERE id = $1 AND author_id = $2 AND is_active",
		id,
		authorID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *postRepo) Find(ctx context.Context, filter model.FeedFilter, limit int, offset int) ([]*model.Post, error) {
	where, args := feedWhere(filter)
	args = append(args, limit, offset)

	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(
			"SELECT %s FROM posts WHERE %s ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d",
			postColumns, where, len(args)-1, len(args),
		),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Count(ctx context.Context, filter model.FeedFilter) (int64, error) {
	where, args := feedWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE "+where, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func feedWhere(filter model.FeedFilter) (string, []any) {
	where := "is_active"
	args := []any{}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}

	return where, args
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		post     model.Post
		postType string
	)
	if err := row.Scan(
		&post.ID,
		&post.Seq,
		&post.AuthorID,
		&postType,
		&post.Caption,
		&post.Content,
		&post.MediaURL,
		&post.Tags,
		&post.Likes,
		&post.Comments,
		&post.IsActive,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	post.Type = model.PostType(postType)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Likes == nil {
		post.Likes = []uuid.UUID{}
	}
	if post.Comments == nil {
		post.Comments = []uuid.UUID{}
	}

	return &post, nil
}
