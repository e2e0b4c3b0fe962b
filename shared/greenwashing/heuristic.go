package greenwashing

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"silenced-backend/internal/models"
)

var vagueSignals = []string{
	"carbon neutral", "net-zero by", "100% sustainable", "eco-friendly",
	"green", "clean", "natural", "planet-friendly", "offsetting",
}

var evidenceSignals = []string{
	"data shows", "research", "study", "peer-reviewed", "ipcc",
	"measured", "verified", "third-party audit", "methodology",
}

// Heuristic weighs vague sustainability language against evidence language.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Detect(_ context.Context, in Input) (*models.GreenwashingResult, error) {
	text := strings.ToLower(in.Title + " " + in.Description + " " + in.Transcript)
	vague := countContained(text, vagueSignals)
	evidence := countContained(text, evidenceSignals)

	flags := []models.GreenwashingFlag{}
	risk := 0

	switch {
	case vague > 0 && evidence == 0:
		risk += 40
		flags = append(flags, models.GreenwashingFlag{
			Type: models.FlagWarning,
			Text: fmt.Sprintf("Found %d vague sustainability term(s) without evidence", vague),
		})
	case vague > evidence*2:
		risk += 25
		flags = append(flags, models.GreenwashingFlag{
			Type: models.FlagWarning,
			Text: fmt.Sprintf("More vague claims (%d) than evidence (%d)", vague, evidence),
		})
	}

	if in.ChannelSubscriberCount > 1_000_000 && vague > 0 {
		risk += 20
		flags = append(flags, models.GreenwashingFlag{
			Type: models.FlagRisk,
			Text: "Large channel making sustainability claims - verify independence",
		})
	}

	if evidence >= 2 {
		risk -= 15
		flags = append(flags, models.GreenwashingFlag{
			Type: models.FlagPositive,
			Text: "Contains evidence-based language",
		})
	}

	if vague > 0 && !strings.ContainsFunc(text, unicode.IsDigit) {
		risk += 15
		flags = append(flags, models.GreenwashingFlag{
			Type: models.FlagWarning,
			Text: "Sustainability claims without specific metrics",
		})
	}

	transparency := clampScore(100 - risk)
	return &models.GreenwashingResult{
		TransparencyScore: transparency,
		RiskLevel:         models.RiskLevelFor(transparency),
		Flags:             flags,
		Method:            models.MethodHeuristic,
	}, nil
}

func countContained(text string, patterns []string) int {
	count := 0
	for _, p := range patterns {
		if strings.Contains(text, p) {
			count++
		}
	}
	return count
}
