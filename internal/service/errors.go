package service

import (
	"errors"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
)

var (
	ErrInternal          = errors.New("internal server error")
	ErrPostNotFound      = errors.New("post not found")
	ErrNotPostAuthor     = errors.New("you can only delete your own posts")
	ErrMediaUploadFailed = errors.New("failed to upload media")
	ErrFileRequired      = errors.New("media file is required")
	ErrFileTooLarge      = errors.New("media file exceeds the 50MB limit")
	ErrUnsupportedMedia  = errors.New("file type does not match the post type")
)

type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func newValidationError(field string, message string) *ValidationError {
	return &ValidationError{Fields: []dto.FieldError{{Field: field, Message: message}}}
}
