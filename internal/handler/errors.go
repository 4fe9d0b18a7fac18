package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized   = errors.New("user is not authorized")
	errInvalidPostID   = errors.New("invalid post ID")
	errInvalidPostType = errors.New("invalid post type, must be one of: image, video, blog")
	errTagRequired     = errors.New("tag is required")
)

// errorResponse maps service errors onto HTTP statuses. Unknown errors are reported as a
// generic internal error.
func (h *Handler) errorResponse(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.NewValidationResponse("validation failed", validationErr.Fields))
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrNotPostAuthor):
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrFileRequired),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedMedia):
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrMediaUploadFailed):
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, service.ErrInternal.Error()))
	}
}

func badRequestField(c *gin.Context, field string, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationResponse(err.Error(), []dto.FieldError{
		{Field: field, Message: err.Error()},
	}))
}
