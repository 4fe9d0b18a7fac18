package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentRepo struct {
	db     DBTX
	logger *zap.Logger
}

func newCommentRepo(db DBTX, logger *zap.Logger) *commentRepo {
	return &commentRepo{
		db:     db,
		logger: logger,
	}
}

// CreateAndAttach inserts the comment and appends it to the post inside one transaction,
// so a comment is never stored without being linked.
func (r *commentRepo) CreateAndAttach(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.IsActive = true

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(ctx); err != nil {
			r.logger.Sugar().Errorf("failed to rollback comment(%s) transaction: %s", comment.ID.String(), err.Error())
		}
	}()

	tag, err := tx.Exec(
		ctx,
		"UPDATE posts SET comment_ids = array_append(comment_ids, $2::uuid), updated_at = $3 WHERE id = $1 AND is_active",
		comment.PostID,
		comment.ID,
		now,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO comments(id, post_id, author_id, content, is_active, created_at, updated_at)
		VALUES($1, $2, $3, $4, TRUE, $5, $5)
		RETURNING seq`,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		now,
	).Scan(&comment.Seq); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true

	return &comment, nil
}

func (r *commentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, seq, post_id, author_id, content, is_active, created_at, updated_at
		FROM comments
		WHERE post_id = $1 AND is_active
		ORDER BY created_at ASC, seq ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.Seq,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Content,
			&comment.IsActive,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
