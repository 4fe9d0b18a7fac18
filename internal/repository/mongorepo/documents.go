package mongorepo

import (
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type postDocument struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	AuthorID  string    `bson:"author_id"`
	Type      string    `bson:"type"`
	Caption   string    `bson:"caption"`
	Content   string    `bson:"content"`
	MediaURL  *string   `bson:"media_url,omitempty"`
	Tags      []string  `bson:"tags"`
	Likes     []string  `bson:"likes"`
	Comments  []string  `bson:"comments"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	PostID    string    `bson:"post_id"`
	AuthorID  string    `bson:"author_id"`
	Content   string    `bson:"content"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newPostDocument(p model.Post) postDocument {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return postDocument{
		ID:        p.ID.String(),
		Seq:       p.Seq,
		AuthorID:  p.AuthorID.String(),
		Type:      string(p.Type),
		Caption:   p.Caption,
		Content:   p.Content,
		MediaURL:  p.MediaURL,
		Tags:      tags,
		Likes:     idStrings(p.Likes),
		Comments:  idStrings(p.Comments),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d postDocument) toModel() (*model.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return nil, err
	}
	likes, err := parseIDs(d.Likes)
	if err != nil {
		return nil, err
	}
	comments, err := parseIDs(d.Comments)
	if err != nil {
		return nil, err
	}

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.Post{
		ID:        id,
		AuthorID:  authorID,
		Type:      model.PostType(d.Type),
		Caption:   d.Caption,
		Content:   d.Content,
		MediaURL:  d.MediaURL,
		Tags:      tags,
		Likes:     likes,
		Comments:  comments,
		IsActive:  d.IsActive,
		Seq:       d.Seq,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func newCommentDocument(c model.Comment) commentDocument {
	return commentDocument{
		ID:        c.ID.String(),
		Seq:       c.Seq,
		PostID:    c.PostID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d commentDocument) toModel() (*model.Comment, error) {
	ids, err := parseIDs([]string{d.ID, d.PostID, d.AuthorID})
	if err != nil {
		return nil, err
	}

	return &model.Comment{
		ID:        ids[0],
		PostID:    ids[1],
		AuthorID:  ids[2],
		Content:   d.Content,
		IsActive:  d.IsActive,
		Seq:       d.Seq,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	for i, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
