package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"silenced-backend/internal/models"
	"silenced-backend/shared/config"
)

// ErrNoAPIKey is returned by NewClient when no Data API key is configured.
var ErrNoAPIKey = errors.New("YouTube Data API key not configured")

// ErrVideoNotFound is returned when the Data API has no such video.
var ErrVideoNotFound = errors.New("video not found")

var isoDurationRE = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// Client reads public video metadata through the YouTube Data API.
type Client struct {
	service *youtube.Service
	now     func() time.Time
}

func NewClient(ctx context.Context, cfg *config.YouTubeConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClientWithOptions(ctx, option.WithAPIKey(cfg.APIKey))
}

func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create YouTube service")
	}
	return &Client{service: service, now: time.Now}, nil
}

// GetVideo fetches one video with its channel's subscriber count and the
// derived velocity and engagement figures.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get video %s", videoID)
	}
	if len(resp.Items) == 0 {
		return nil, errors.Wrap(ErrVideoNotFound, videoID)
	}

	item := resp.Items[0]
	video := &models.Video{
		ID:  item.Id,
		URL: fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
	}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
		video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}

	if video.ChannelID != "" {
		subs, err := c.channelSubscribers(ctx, video.ChannelID)
		if err != nil {
			logrus.WithError(err).WithField("channel_id", video.ChannelID).Warn("Failed to get channel statistics")
		} else {
			video.ChannelSubscriberCount = subs
		}
	}

	deriveStats(video, c.now())
	return video, nil
}

func (c *Client) channelSubscribers(ctx context.Context, channelID string) (int64, error) {
	resp, err := c.service.Channels.List([]string{"statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return 0, errors.Errorf("no statistics for channel %s", channelID)
	}
	return int64(resp.Items[0].Statistics.SubscriberCount), nil
}

// deriveStats fills views per day (at least one day of age) and the
// likes-plus-comments per view ratio.
func deriveStats(v *models.Video, now time.Time) {
	if !v.PublishedAt.IsZero() {
		days := now.Sub(v.PublishedAt).Hours() / 24
		if days < 1 {
			days = 1
		}
		v.ViewsPerDay = float64(v.ViewCount) / days
	}
	if v.ViewCount > 0 {
		v.EngagementRatio = float64(v.LikeCount+v.CommentCount) / float64(v.ViewCount)
	}
}

func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	// ISO 8601 duration (e.g., "PT1M30S", "PT45S", "PT2H15M30S")
	matches := isoDurationRE.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}
	return totalSeconds
}
