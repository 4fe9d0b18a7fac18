package dto

import "github.com/BloggingApp/feed-service/internal/model"

type PostResponse struct {
	model.Post
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
}

func NewPostResponse(post *model.Post) PostResponse {
	return PostResponse{
		Post:         *post,
		LikeCount:    post.LikeCount(),
		CommentCount: post.CommentCount(),
	}
}

func NewPostsResponse(page *model.FeedPage) PostsResponse {
	posts := make([]PostResponse, 0, len(page.Posts))
	for _, post := range page.Posts {
		posts = append(posts, NewPostResponse(post))
	}

	return PostsResponse{
		Posts: posts,
		Pagination: Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	}
}

// FullPostResponse replaces the post's comment ids with the comments themselves.
type FullPostResponse struct {
	PostResponse
	Comments []*model.Comment `json:"comments"`
	IsLiked  bool             `json:"is_liked"`
}

type PostsResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type LikeResponse struct {
	Liked   bool         `json:"liked"`
	Message string       `json:"message"`
	Post    PostResponse `json:"post"`
}
