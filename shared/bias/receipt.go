// Package bias explains, from channel and engagement figures, why a video may
// have been under-recommended and why it is being surfaced anyway.
package bias

import (
	"fmt"

	"silenced-backend/internal/models"
)

// Tunables for the receipt. They are heuristics, not measured thresholds.
var (
	MaxReasons = 4

	// HighConfidenceMin is the minimum entry count in both lists for high
	// confidence.
	HighConfidenceMin = 2
	// LowConfidenceSurfacedMax is the surfaced count at or below which
	// confidence is low.
	LowConfidenceSurfacedMax = 1
)

const closingReason = "Content matches search topic and passed quality filters"

type Input struct {
	VideoID            string
	SubscriberCount    int64
	ViewsPerDay        float64
	EngagementRatio    float64
	AvgSubsInTopic     int64
	TopicConcentration int
	VideoTitle         string
	ChannelTitle       string
}

func InputFromRequest(req models.BiasReceiptRequest) Input {
	return Input(req)
}

// Generate builds the receipt. It has no external dependencies and cannot
// fail.
func Generate(in Input) *models.BiasReceipt {
	notShown := WhyNotShown(in)
	surfaced := WhySurfaced(in)
	return &models.BiasReceipt{
		Success:     true,
		VideoID:     in.VideoID,
		WhyNotShown: notShown,
		WhySurfaced: surfaced,
		Confidence:  ConfidenceFor(len(notShown), len(surfaced)),
		Method:      models.MethodHeuristic,
	}
}

func WhyNotShown(in Input) []string {
	reasons := []string{}

	switch {
	case in.SubscriberCount < 10_000:
		reasons = append(reasons, "Channel has under 10K subscribers, limiting algorithmic reach")
	case in.SubscriberCount < 50_000:
		reasons = append(reasons, "Channel size (under 50K) may limit recommendation visibility")
	case in.SubscriberCount < 100_000:
		reasons = append(reasons, "Mid-sized channel may receive less algorithmic priority")
	}

	if in.TopicConcentration > 70 {
		reasons = append(reasons, fmt.Sprintf("Topic is %d%% dominated by top 10 channels", in.TopicConcentration))
	}

	if in.ViewsPerDay < 100 && in.SubscriberCount > 1000 {
		reasons = append(reasons, "Lower view velocity may reduce recommendation frequency")
	}

	return limit(reasons)
}

func WhySurfaced(in Input) []string {
	reasons := []string{}

	if in.SubscriberCount < 100_000 {
		reasons = append(reasons, "Under-represented creator deserving more visibility")
	}

	if in.EngagementRatio > 0.05 {
		reasons = append(reasons, fmt.Sprintf("High engagement ratio (%.1f%%) indicates quality content", in.EngagementRatio*100))
	}

	if float64(in.SubscriberCount) < 0.5*float64(in.AvgSubsInTopic) {
		reasons = append(reasons, "Smaller than average for this topic - surfaced to balance representation")
	}

	reasons = append(reasons, closingReason)
	return limit(reasons)
}

func ConfidenceFor(notShown, surfaced int) models.Confidence {
	switch {
	case notShown >= HighConfidenceMin && surfaced >= HighConfidenceMin:
		return models.ConfidenceHigh
	case notShown == 0 || surfaced <= LowConfidenceSurfacedMax:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

func limit(reasons []string) []string {
	if len(reasons) > MaxReasons {
		return reasons[:MaxReasons]
	}
	return reasons
}
