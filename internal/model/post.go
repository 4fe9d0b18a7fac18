package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type PostType string

const (
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
	PostTypeBlog  PostType = "blog"
)

var PostTypes = []PostType{PostTypeImage, PostTypeVideo, PostTypeBlog}

func (t PostType) Valid() bool {
	return slices.Contains(PostTypes, t)
}

// HasMedia reports whether posts of this type carry an uploaded media object.
func (t PostType) HasMedia() bool {
	return t == PostTypeImage || t == PostTypeVideo
}

type Post struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Type      PostType    `json:"type"`
	Caption   string      `json:"caption"`
	Content   string      `json:"content"`
	MediaURL  *string     `json:"media_url,omitempty"`
	Tags      []string    `json:"tags"`
	Likes     []uuid.UUID `json:"likes"`
	Comments  []uuid.UUID `json:"comments"`
	IsActive  bool        `json:"is_active"`
	Seq       int64       `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (p *Post) LikeCount() int {
	return len(p.Likes)
}

func (p *Post) CommentCount() int {
	return len(p.Comments)
}

func (p *Post) HasLiked(userID uuid.UUID) bool {
	return slices.Contains(p.Likes, userID)
}

type FullPost struct {
	Post     Post       `json:"post"`
	Comments []*Comment `json:"comments"`
}

// FeedFilter selects the posts a feed query returns. The zero value selects every active post.
type FeedFilter struct {
	Type PostType
	Tag  string
}

type FeedPage struct {
	Posts []*Post `json:"posts"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int64   `json:"total"`
	Pages int64   `json:"pages"`
}
