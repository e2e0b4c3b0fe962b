package quality

import (
	"context"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"silenced-backend/internal/models"
	"silenced-backend/shared/ai"
)

// ErrUnavailable is wrapped by strategies that cannot produce a result.
var ErrUnavailable = errors.New("quality strategy unavailable")

// Input is everything a strategy may look at when scoring one video.
type Input struct {
	VideoID         string
	Title           string
	Description     string
	Transcript      string
	ChannelTitle    string
	SubscriberCount int64
	Query           string
}

func InputFromRequest(req models.QualityScoreRequest) Input {
	return Input{
		VideoID:         req.VideoID,
		Title:           req.Title,
		Description:     req.Description,
		Transcript:      req.Transcript,
		ChannelTitle:    req.ChannelTitle,
		SubscriberCount: req.SubscriberCount,
		Query:           req.Query,
	}
}

type Strategy interface {
	Name() string
	Score(ctx context.Context, in Input) (*models.QualityResult, error)
}

// Scorer tries its strategies in order and always ends with the heuristic.
type Scorer struct {
	strategies []Strategy
	fallback   Heuristic
}

// NewScorer returns a Scorer that consults the LLM first when completer is
// non-nil.
func NewScorer(completer ai.Completer) *Scorer {
	s := &Scorer{}
	if completer != nil {
		s.strategies = append(s.strategies, NewLLMStrategy(completer))
	}
	return s
}

// NewScorerWithStrategies is used when the primary strategies are built by
// the caller.
func NewScorerWithStrategies(strategies ...Strategy) *Scorer {
	return &Scorer{strategies: strategies}
}

func (s *Scorer) Score(ctx context.Context, in Input) *models.QualityResult {
	for _, strategy := range s.strategies {
		result, err := strategy.Score(ctx, in)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"video_id": in.VideoID,
				"strategy": strategy.Name(),
			}).Warn("Quality strategy unavailable, falling back")
			continue
		}
		return finish(result, in)
	}

	result, _ := s.fallback.Score(ctx, in)
	return finish(result, in)
}

func finish(result *models.QualityResult, in Input) *models.QualityResult {
	result.Success = true
	result.VideoID = in.VideoID
	if result.Flags == nil {
		result.Flags = []string{}
	}
	logrus.WithFields(logrus.Fields{
		"video_id": in.VideoID,
		"method":   result.Method,
		"combined": result.CombinedScore,
	}).Info("Scored video quality")
	return result
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// round2 rounds the exact binary value to two decimals, ties to even.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
