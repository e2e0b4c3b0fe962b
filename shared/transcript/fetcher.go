package transcript

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"silenced-backend/internal/models"
)

// Provider signals. Implementations wrap one of these so the Fetcher can
// report a specific reason to the client.
var (
	ErrTranscriptsDisabled = errors.New("transcripts disabled")
	ErrNoTranscriptFound   = errors.New("no transcript found")
	ErrVideoUnavailable    = errors.New("video unavailable")
)

// AutoLanguage is recorded when no preferred language matched.
const AutoLanguage = "auto"

// Provider retrieves timed caption segments for a video. An empty language
// means any available track.
type Provider interface {
	Fetch(ctx context.Context, videoID, language string) ([]models.TranscriptSegment, error)
}

type Fetcher struct {
	provider Provider
}

func NewFetcher(provider Provider) *Fetcher {
	return &Fetcher{provider: provider}
}

// Fetch tries each preferred language in order, then any language. It never
// returns an error: failures are reported through the result.
func (f *Fetcher) Fetch(ctx context.Context, videoID string, languages []string) *models.TranscriptResult {
	if len(languages) == 0 {
		languages = models.DefaultTranscriptLanguages
	}
	logger := logrus.WithField("video_id", videoID)
	logger.Info("Fetching transcript")

	var (
		segments []models.TranscriptSegment
		used     string
	)
	for _, lang := range languages {
		s, err := f.provider.Fetch(ctx, videoID, lang)
		if err != nil {
			logger.WithError(err).WithField("language", lang).Debug("No transcript in preferred language")
			continue
		}
		segments, used = s, lang
		break
	}

	if used == "" {
		s, err := f.provider.Fetch(ctx, videoID, "")
		if err != nil {
			return failure(videoID, err)
		}
		segments, used = s, AutoLanguage
	}

	if len(segments) == 0 {
		return &models.TranscriptResult{VideoID: videoID, Error: "Empty transcript returned"}
	}

	text := JoinSegments(segments)
	if strings.TrimSpace(text) == "" {
		return &models.TranscriptResult{VideoID: videoID, Error: "Empty transcript returned"}
	}

	duration := TotalDuration(segments)
	logger.WithFields(logrus.Fields{
		"chars":    len(text),
		"language": used,
	}).Info("Fetched transcript")

	return &models.TranscriptResult{
		Success:         true,
		VideoID:         videoID,
		Transcript:      text,
		Language:        used,
		DurationSeconds: &duration,
	}
}

func failure(videoID string, err error) *models.TranscriptResult {
	result := &models.TranscriptResult{VideoID: videoID}
	switch {
	case errors.Is(err, ErrNoTranscriptFound):
		result.Error = "No transcript available for this video"
	case errors.Is(err, ErrTranscriptsDisabled):
		result.Error = "Transcripts are disabled for this video"
	case errors.Is(err, ErrVideoUnavailable):
		result.Error = "Video is unavailable"
	default:
		logrus.WithError(err).WithField("video_id", videoID).Error("Error fetching transcript")
		result.Error = err.Error()
	}
	return result
}

// JoinSegments concatenates segment texts with single spaces.
func JoinSegments(segments []models.TranscriptSegment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, " ")
}

// TotalDuration is the end offset of the last segment.
func TotalDuration(segments []models.TranscriptSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	last := segments[len(segments)-1]
	return last.Start + last.Duration
}
