package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"jumewears/internal/cache"
	"jumewears/internal/model"
	"jumewears/internal/repository"
)

const youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"

// FeedService serves the mixed image/video home feed. Videos come from the
// channel's YouTube uploads, cached in Redis; images come from the database.
type FeedService struct {
	repo       repository.FeedRepository
	videoCache cache.YouTubeCache
	media      *MediaService
	httpClient *http.Client

	apiKey    string
	channelID string
}

func NewFeedService(repo repository.FeedRepository, videoCache cache.YouTubeCache, media *MediaService, apiKey, channelID string) *FeedService {
	return &FeedService{
		repo:       repo,
		videoCache: videoCache,
		media:      media,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		channelID:  channelID,
	}
}

// AddImage uploads a new feed image to object storage and records it.
func (s *FeedService) AddImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.FeedImage, error) {
	upload, err := s.media.UploadFeedImage(ctx, file, header)
	if err != nil {
		return nil, err
	}

	image := &model.FeedImage{
		ID:     uuid.New(),
		URL:    upload.URL,
		Active: true,
	}
	if err := s.repo.CreateImage(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to store feed image: %w", err)
	}
	return image, nil
}

// RemoveImage takes an image out of the feed. The object stays in storage;
// existing fragment caches may still reference its URL.
func (s *FeedService) RemoveImage(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateImage(ctx, id)
}

// LoadMore returns the next window of up to FeedPageSize mixed items. The
// combined pool is videos first, then images; the served window is shuffled
// so each page renders in a different order. An empty result means the feed
// is exhausted.
func (s *FeedService) LoadMore(ctx context.Context, offset int) ([]model.FeedItem, error) {
	if offset < 0 {
		offset = 0
	}

	videos := s.channelVideos(ctx)

	var items []model.FeedItem
	remaining := model.FeedPageSize
	imageOffset := offset - len(videos)

	if offset < len(videos) {
		end := offset + remaining
		if end > len(videos) {
			end = len(videos)
		}
		for i := offset; i < end; i++ {
			v := videos[i]
			items = append(items, model.FeedItem{Type: "video", Video: &v})
		}
		remaining -= end - offset
		imageOffset = 0
	}

	if remaining > 0 {
		images, err := s.repo.ListImages(ctx, imageOffset, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to list feed images: %w", err)
		}
		for i := range images {
			items = append(items, model.FeedItem{Type: "image", Image: &images[i]})
		}
	}

	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	return items, nil
}

// channelVideos returns the channel's uploads, from cache when fresh. A
// fetch failure degrades to an image-only feed rather than erroring out.
func (s *FeedService) channelVideos(ctx context.Context) []model.FeedVideo {
	if videos, found, err := s.videoCache.Get(ctx); err == nil && found {
		return videos
	}

	if s.apiKey == "" || s.channelID == "" {
		return nil
	}

	videos, err := s.fetchChannelVideos(ctx)
	if err != nil {
		log.Printf("[FeedService] YouTube fetch failed: %v", err)
		return nil
	}

	if err := s.videoCache.Set(ctx, videos); err != nil {
		log.Printf("[FeedService] YouTube cache set failed: %v", err)
	}

	return videos
}

// youtubeSearchResponse is the slice of the Data API search response we use.
type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			PublishedAt time.Time `json:"publishedAt"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// fetchChannelVideos pulls the channel's latest uploads from the Data API.
func (s *FeedService) fetchChannelVideos(ctx context.Context) ([]model.FeedVideo, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("channelId", s.channelID)
	params.Set("part", "snippet")
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube API returned %d", resp.StatusCode)
	}

	var parsed youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode youtube response: %w", err)
	}

	videos := make([]model.FeedVideo, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, model.FeedVideo{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	return videos, nil
}
