package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/media"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	actorIDKey          = "actor-id"
	defaultClientOrigin = "http://localhost:3000"
	multipartOverhead   = 1 << 20
)

type Config struct {
	AccessSecret []byte
	ClientOrigin string
}

type Handler struct {
	services *service.Service
	logger   *zap.Logger
	config   Config
}

func New(services *service.Service, logger *zap.Logger, config Config) *Handler {
	if config.ClientOrigin == "" {
		config.ClientOrigin = defaultClientOrigin
	}

	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(h.requestLogger, gin.CustomRecovery(h.recovery))
	r.MaxMultipartMemory = media.MaxUploadSize

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.config.ClientOrigin},
		AllowMethods:     []string{"POST", "GET", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.health)

		posts := v1.Group("/posts", h.authMiddleware)
		{
			posts.POST("/blog", h.postsCreateBlog)
			posts.POST("/image", h.postsCreateMedia(media.CategoryImage))
			posts.POST("/video", h.postsCreateMedia(media.CategoryVideo))
			posts.GET("", h.postsGet)
			posts.GET("/type/:type", h.postsGetByType)
			posts.GET("/tag/:tag", h.postsGetByTag)

			post := posts.Group("/:postID")
			{
				post.GET("", h.postsGetByID)
				post.POST("/like", h.postsLike)
				post.POST("/comments", h.commentsCreate)
				post.DELETE("", h.postsDelete)
			}
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "feed service is running"))
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	c.Next()

	h.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}

func (h *Handler) recovery(c *gin.Context, recovered any) {
	h.logger.Sugar().Errorf("panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewBasicResponse(false, service.ErrInternal.Error()))
}

func (h *Handler) getActorID(c *gin.Context) uuid.UUID {
	actorID, _ := c.Get(actorIDKey)

	id, ok := actorID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return id
}

// pageParams reads page and limit from the query. Missing or non-numeric values fall back to
// the feed defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}
