package greenwashing

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"silenced-backend/internal/models"
	"silenced-backend/shared/ai"
)

// ErrUnavailable is wrapped by strategies that cannot produce a result.
var ErrUnavailable = errors.New("greenwashing strategy unavailable")

var sustainabilityKeywords = []string{
	"climate", "sustainable", "sustainability", "esg", "carbon",
	"renewable", "green energy", "clean energy", "environment",
	"eco-friendly", "biodiversity", "emissions", "net zero",
}

type Input struct {
	VideoID                string
	Title                  string
	Description            string
	Transcript             string
	ChannelSubscriberCount int64
}

func InputFromRequest(req models.GreenwashingRequest) Input {
	return Input{
		VideoID:                req.VideoID,
		Title:                  req.Title,
		Description:            req.Description,
		Transcript:             req.Transcript,
		ChannelSubscriberCount: req.ChannelSubscriberCount,
	}
}

type Strategy interface {
	Name() string
	Detect(ctx context.Context, in Input) (*models.GreenwashingResult, error)
}

type Detector struct {
	strategies []Strategy
	fallback   Heuristic
}

// NewDetector returns a Detector that consults the LLM first when completer
// is non-nil.
func NewDetector(completer ai.Completer) *Detector {
	d := &Detector{}
	if completer != nil {
		d.strategies = append(d.strategies, NewLLMStrategy(completer))
	}
	return d
}

// IsSustainabilityContent reports whether the title or description mentions
// any sustainability keyword. The transcript is not consulted.
func IsSustainabilityContent(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, kw := range sustainabilityKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (d *Detector) Detect(ctx context.Context, in Input) *models.GreenwashingResult {
	logger := logrus.WithField("video_id", in.VideoID)

	if !IsSustainabilityContent(in.Title, in.Description) {
		logger.Debug("Skipping greenwashing analysis for non-sustainability content")
		return &models.GreenwashingResult{
			Success:           true,
			VideoID:           in.VideoID,
			TransparencyScore: 100,
			RiskLevel:         models.RiskLow,
			Flags:             []models.GreenwashingFlag{{Type: models.FlagInfo, Text: "Not sustainability-related content"}},
			Method:            models.MethodSkip,
		}
	}

	for _, strategy := range d.strategies {
		result, err := strategy.Detect(ctx, in)
		if err != nil {
			logger.WithError(err).WithField("strategy", strategy.Name()).Warn("Greenwashing strategy unavailable, falling back")
			continue
		}
		return finish(result, in)
	}

	result, _ := d.fallback.Detect(ctx, in)
	return finish(result, in)
}

func finish(result *models.GreenwashingResult, in Input) *models.GreenwashingResult {
	result.Success = true
	result.VideoID = in.VideoID
	if result.Flags == nil {
		result.Flags = []models.GreenwashingFlag{}
	}
	logrus.WithFields(logrus.Fields{
		"video_id":     in.VideoID,
		"method":       result.Method,
		"transparency": result.TransparencyScore,
		"risk_level":   result.RiskLevel,
	}).Info("Analyzed greenwashing risk")
	return result
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
