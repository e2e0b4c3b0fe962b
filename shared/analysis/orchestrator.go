package analysis

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"silenced-backend/internal/models"
	"silenced-backend/shared/greenwashing"
	"silenced-backend/shared/quality"
)

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) *models.TranscriptResult
}

type QualityScorer interface {
	Score(ctx context.Context, in quality.Input) *models.QualityResult
}

type GreenwashingDetector interface {
	Detect(ctx context.Context, in greenwashing.Input) *models.GreenwashingResult
}

// MetadataSource looks up public video details. It is optional.
type MetadataSource interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
}

// Orchestrator runs transcript fetch, quality scoring and greenwashing
// detection one after another for a single video.
type Orchestrator struct {
	fetcher  TranscriptFetcher
	scorer   QualityScorer
	detector GreenwashingDetector
	metadata MetadataSource
}

func NewOrchestrator(fetcher TranscriptFetcher, scorer QualityScorer, detector GreenwashingDetector) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, scorer: scorer, detector: detector}
}

// WithMetadata enables enrichment for requests that omit the title. Without
// it, or when the lookup fails, an empty title is scored as is.
func (o *Orchestrator) WithMetadata(source MetadataSource) *Orchestrator {
	o.metadata = source
	return o
}

func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalyzeRequest) *models.AnalysisResult {
	logger := logrus.WithField("video_id", req.VideoID)
	result := &models.AnalysisResult{VideoID: req.VideoID}

	if strings.TrimSpace(req.Title) == "" && o.metadata != nil {
		video, err := o.metadata.GetVideo(ctx, req.VideoID)
		if err != nil {
			logger.WithError(err).Warn("Metadata lookup failed")
		} else {
			enrich(&req, video)
			result.Metadata = video
		}
	}

	var transcriptText string
	if req.FetchTranscript {
		result.Transcript = o.fetcher.Fetch(ctx, req.VideoID, models.DefaultTranscriptLanguages)
		if result.Transcript.Success {
			transcriptText = result.Transcript.Transcript
		}
	}

	result.Quality = o.scorer.Score(ctx, quality.Input{
		VideoID:         req.VideoID,
		Title:           req.Title,
		Description:     req.Description,
		Transcript:      transcriptText,
		ChannelTitle:    req.ChannelTitle,
		SubscriberCount: req.SubscriberCount,
		Query:           req.Query,
	})

	result.Greenwashing = o.detector.Detect(ctx, greenwashing.Input{
		VideoID:                req.VideoID,
		Title:                  req.Title,
		Description:            req.Description,
		Transcript:             transcriptText,
		ChannelSubscriberCount: req.SubscriberCount,
	})

	result.Success = true
	logger.WithFields(logrus.Fields{
		"has_transcript": transcriptText != "",
		"quality":        result.Quality.Method,
		"greenwashing":   result.Greenwashing.Method,
	}).Info("Analysis complete")
	return result
}

// enrich fills only the fields the client left empty.
func enrich(req *models.AnalyzeRequest, video *models.Video) {
	if req.Title == "" {
		req.Title = video.Title
	}
	if req.Description == "" {
		req.Description = video.Description
	}
	if req.ChannelTitle == "" {
		req.ChannelTitle = video.ChannelTitle
	}
	if req.SubscriberCount == 0 {
		req.SubscriberCount = video.ChannelSubscriberCount
	}
}
