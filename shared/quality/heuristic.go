package quality

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"silenced-backend/internal/models"
)

const heuristicReason = "Heuristic analysis based on title, description, and transcript patterns"

var clickbaitPatterns = []string{
	"you won't believe", "shocking", "insane", "!!!",
	"gone wrong", "exposed", "clickbait", "😱", "🤯",
}

var educationalTerms = []string{"research", "study", "data", "evidence", "according to", "explains"}

// Heuristic scores from text patterns alone. It is deterministic and never
// fails.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Score(_ context.Context, in Input) (*models.QualityResult, error) {
	titleLower := strings.ToLower(in.Title)
	descLower := strings.ToLower(in.Description)
	fullText := titleLower + " " + descLower
	flags := []string{}

	relevance := 0.5
	var titleMatches, descMatches int
	for _, word := range strings.Fields(strings.ToLower(in.Query)) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if strings.Contains(titleLower, word) {
			titleMatches++
		}
		if strings.Contains(descLower, word) {
			descMatches++
		}
	}
	relevance += min(0.3, float64(titleMatches)*0.1)
	relevance += min(0.2, float64(descMatches)*0.05)

	quality := 0.5
	if in.SubscriberCount > 1000 {
		quality += 0.1
		flags = append(flags, "Established channel")
	}
	if utf8.RuneCountInString(in.Description) > 200 {
		quality += 0.1
		flags = append(flags, "Detailed description")
	}

	clickbait := countContained(fullText, clickbaitPatterns)
	if clickbait > 0 {
		quality -= min(0.2, float64(clickbait)*0.1)
		flags = append(flags, fmt.Sprintf("Potential clickbait (%d indicators)", clickbait))
	}

	if isAllCaps(in.Title) && utf8.RuneCountInString(in.Title) > 10 {
		quality -= 0.1
		flags = append(flags, "ALL CAPS title")
	}

	var depth *float64
	if n := utf8.RuneCountInString(in.Transcript); n > 500 {
		d := 0.5
		if n > 2000 {
			d += 0.2
		}
		if n > 5000 {
			d += 0.1
		}
		if countContained(strings.ToLower(in.Transcript), educationalTerms) >= 2 {
			d += 0.2
			flags = append(flags, "Contains educational content")
		}
		d = clamp01(d)
		depth = &d
	}

	relevance = clamp01(relevance)
	quality = clamp01(quality)

	result := &models.QualityResult{
		RelevanceScore: round2(relevance),
		QualityScore:   round2(quality),
		CombinedScore:  round2(heuristicCombined(relevance, quality, depth)),
		Method:         models.MethodHeuristic,
		Reason:         heuristicReason,
		Flags:          flags,
	}
	if depth != nil {
		d := round2(*depth)
		result.ContentDepthScore = &d
	}
	if in.Transcript != "" {
		result.Method = models.MethodHeuristicTranscript
	}
	return result, nil
}

// heuristicCombined weights relevance and quality at 0.4 each when depth is
// unknown, so the heuristic never reaches 1.0 without a transcript.
func heuristicCombined(relevance, quality float64, depth *float64) float64 {
	if depth == nil {
		return relevance*0.4 + quality*0.4
	}
	return relevance*0.3 + quality*0.3 + *depth*0.4
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

// isAllCaps reports whether s has at least one cased letter and no lowercase
// or titlecase ones.
func isAllCaps(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
