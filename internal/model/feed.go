package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FeedPageSize is the number of mixed items returned per load-more request.
const FeedPageSize = 30

// FeedImage is a stored image shown in the home feed.
type FeedImage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	URL        string    `db:"url" json:"url"`
	UploadDate time.Time `db:"upload_date" json:"upload_date"`
	Active     bool      `db:"active" json:"active"`
}

// FeedVideo is a YouTube upload pulled from the channel cache.
type FeedVideo struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

// FeedItem is one entry of the mixed image/video feed fragment.
type FeedItem struct {
	Type  string // "image" or "video"
	Image *FeedImage
	Video *FeedVideo
}

var ErrFeedImageNotFound = errors.New("feed image not found")
