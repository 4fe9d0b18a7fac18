package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/media"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/BloggingApp/feed-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postsCreateBlog(c *gin.Context) {
	actorID := h.getActorID(c)

	var input dto.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), actorID, dto.CreatePostInput{
		Type:    model.PostTypeBlog,
		Caption: input.Caption,
		Content: input.Content,
		Tags:    input.Tags,
	})
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewPostResponse(createdPost))
}

// postsCreateMedia handles image and video uploads. The multipart file field is named after
// the post type.
func (h *Handler) postsCreateMedia(category string) gin.HandlerFunc {
	postType := model.PostType(category)

	return func(c *gin.Context) {
		actorID := h.getActorID(c)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadSize+multipartOverhead)

		file, fileHeader, err := c.Request.FormFile(category)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.errorResponse(c, service.ErrFileTooLarge)
				return
			}
			h.errorResponse(c, fmt.Errorf("%w: %s", service.ErrFileRequired, category))
			return
		}
		defer file.Close()

		input := dto.CreatePostInput{
			Type:    postType,
			Caption: c.PostForm("caption"),
			Tags:    formTags(c),
		}
		upload := dto.MediaUpload{
			File:     file,
			FileName: fileHeader.Filename,
			Size:     fileHeader.Size,
		}

		createdPost, err := h.services.Post.CreateWithMedia(c.Request.Context(), actorID, input, upload)
		if err != nil {
			h.errorResponse(c, err)
			return
		}

		c.JSON(http.StatusCreated, dto.NewPostResponse(createdPost))
	}
}

// formTags passes a single tags field through as-is (list, JSON or comma separated) and
// repeated fields as a list.
func formTags(c *gin.Context) any {
	values := c.PostFormArray("tags")
	if len(values) == 1 {
		return values[0]
	}
	return values
}

func (h *Handler) postsGet(c *gin.Context) {
	h.feed(c, model.FeedFilter{})
}

func (h *Handler) postsGetByType(c *gin.Context) {
	postType := model.PostType(c.Param("type"))
	if !postType.Valid() {
		badRequestField(c, "type", errInvalidPostType)
		return
	}

	h.feed(c, model.FeedFilter{Type: postType})
}

func (h *Handler) postsGetByTag(c *gin.Context) {
	tag := utils.NormalizeTag(c.Param("tag"))
	if tag == "" {
		badRequestField(c, "tag", errTagRequired)
		return
	}

	h.feed(c, model.FeedFilter{Tag: tag})
}

func (h *Handler) feed(c *gin.Context, filter model.FeedFilter) {
	page, limit := pageParams(c)

	result, err := h.services.Feed.Query(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostsResponse(result))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	actorID := h.getActorID(c)

	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	comments := post.Comments
	if comments == nil {
		comments = []*model.Comment{}
	}

	c.JSON(http.StatusOK, dto.FullPostResponse{
		PostResponse: dto.NewPostResponse(&post.Post),
		Comments:     comments,
		IsLiked:      post.Post.HasLiked(actorID),
	})
}

func (h *Handler) postsLike(c *gin.Context) {
	actorID := h.getActorID(c)

	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, liked, err := h.services.Post.ToggleLike(c.Request.Context(), postID, actorID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}

	c.JSON(http.StatusOK, dto.LikeResponse{
		Liked:   liked,
		Message: message,
		Post:    dto.NewPostResponse(post),
	})
}

func (h *Handler) postsDelete(c *gin.Context) {
	actorID := h.getActorID(c)

	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, actorID); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted"))
}
