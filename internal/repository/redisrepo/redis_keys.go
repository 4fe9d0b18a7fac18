package redisrepo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	POST_KEY         = "post:%s:%d"       // <postID>:<version>
	POST_VERSION_KEY = "post:version:%s"  // <postID>
	FEED_KEY         = "feed:%d:%s:%d:%d" // <version>:<filter>:<page>:<limit>
	FEED_VERSION_KEY = "feed:version"
)

// PostKey addresses one cached post under its current version, see PostVersionKey.
func PostKey(postID uuid.UUID, version int64) string {
	return fmt.Sprintf(POST_KEY, postID.String(), version)
}

func PostVersionKey(postID uuid.UUID) string {
	return fmt.Sprintf(POST_VERSION_KEY, postID.String())
}

// FeedKey addresses one cached feed page. Bumping FEED_VERSION_KEY orphans every page
// cached under the previous version, so writes never have to enumerate feed keys.
func FeedKey(version int64, filter string, page int, limit int) string {
	return fmt.Sprintf(FEED_KEY, version, filter, page, limit)
}
