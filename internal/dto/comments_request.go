package dto

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type CreateCommentInput struct {
	Content string `json:"content" validate:"required,max=500"`
}
