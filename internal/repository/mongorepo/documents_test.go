package mongorepo

import (
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPostDocumentRoundTrip(t *testing.T) {
	url := "https://cdn.example.com/a.png"
	post := model.Post{
		ID:        uuid.New(),
		AuthorID:  uuid.New(),
		Type:      model.PostTypeImage,
		Caption:   "sunset",
		Content:   url,
		MediaURL:  &url,
		Tags:      []string{"sky"},
		Likes:     []uuid.UUID{uuid.New()},
		Comments:  []uuid.UUID{uuid.New(), uuid.New()},
		IsActive:  true,
		Seq:       9,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	post.UpdatedAt = post.CreatedAt

	raw, err := bson.Marshal(newPostDocument(post))
	require.NoError(t, err)

	var doc postDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	got, err := doc.toModel()
	require.NoError(t, err)
	assert.Equal(t, &post, got)
}

func TestPostDocumentRejectsBadIDs(t *testing.T) {
	_, err := postDocument{ID: "nope"}.toModel()
	assert.Error(t, err)
}

func TestFeedFilter(t *testing.T) {
	assert.Equal(t, bson.M{"is_active": true}, feedFilter(model.FeedFilter{}))
	assert.Equal(t,
		bson.M{"is_active": true, "type": "video", "tags": "cats"},
		feedFilter(model.FeedFilter{Type: model.PostTypeVideo, Tag: "cats"}),
	)
}
