package dto

import (
	"io"

	"github.com/BloggingApp/feed-service/internal/model"
)

type CreateBlogPostRequest struct {
	Caption string `json:"caption"`
	Content string `json:"content"`
	// Tags accepts a list or a string; see utils.NormalizeTags.
	Tags any `json:"tags"`
}

// CreatePostInput is what the post service validates. MediaURL is filled in by the service
// after a successful upload for image and video posts.
type CreatePostInput struct {
	Type     model.PostType `json:"type" validate:"required,oneof=image video blog"`
	Caption  string         `json:"caption" validate:"required,max=1000"`
	Content  string         `json:"content"`
	MediaURL string         `json:"media_url" validate:"required_unless=Type blog"`
	Tags     any            `json:"tags"`
}

type MediaUpload struct {
	File     io.Reader
	FileName string
	Size     int64
}
