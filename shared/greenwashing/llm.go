package greenwashing

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"silenced-backend/internal/models"
	"silenced-backend/shared/ai"
)

const transcriptExcerptLimit = 6000

const promptTemplate = `You are an expert sustainability analyst detecting greenwashing.

Analyze this content:
Title: %s
Description: %s

%s
Return JSON with:
{
  "transparency_score": <0-100, higher = more transparent>,
  "flags": [
    {"type": "positive|warning|risk", "text": "description", "evidence": "quote if any"}
  ]
}

Look for:
- Vague terms: "eco-friendly", "green", "natural" without specifics
- Missing evidence for claims
- Hidden trade-offs
- Corporate marketing without substance
- False impressions or certifications

Respond with ONLY valid JSON.`

type llmFlag struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Evidence string `json:"evidence"`
}

type llmResponse struct {
	TransparencyScore *float64  `json:"transparency_score"`
	Flags             []llmFlag `json:"flags"`
}

type LLMStrategy struct {
	completer ai.Completer
}

func NewLLMStrategy(completer ai.Completer) *LLMStrategy {
	return &LLMStrategy{completer: completer}
}

func (s *LLMStrategy) Name() string { return "gemini" }

func (s *LLMStrategy) Detect(ctx context.Context, in Input) (*models.GreenwashingResult, error) {
	if s.completer == nil {
		return nil, errors.Wrap(ErrUnavailable, "no completer configured")
	}

	text, err := s.completer.Complete(ctx, BuildPrompt(in))
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "completion failed: %v", err)
	}

	var resp llmResponse
	fields, err := ai.DecodeObject(text, &resp)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "decode response: %v", err)
	}
	if err := ai.RejectNulls(fields, "transparency_score", "flags"); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "decode response: %v", err)
	}

	score := 50.0
	if resp.TransparencyScore != nil {
		score = math.Max(0, math.Min(100, *resp.TransparencyScore))
	}
	transparency := int(math.Round(score))

	flags := make([]models.GreenwashingFlag, 0, len(resp.Flags))
	for _, f := range resp.Flags {
		flagType := models.FlagType(f.Type)
		if !flagType.Valid() {
			flagType = models.FlagInfo
		}
		flags = append(flags, models.GreenwashingFlag{Type: flagType, Text: f.Text, Evidence: f.Evidence})
	}

	return &models.GreenwashingResult{
		TransparencyScore: transparency,
		RiskLevel:         models.RiskLevelFor(transparency),
		Flags:             flags,
		Method:            models.MethodGemini,
	}, nil
}

func BuildPrompt(in Input) string {
	description := in.Description
	if description == "" {
		description = "No description"
	}
	transcriptSection := ""
	if in.Transcript != "" {
		transcriptSection = fmt.Sprintf("TRANSCRIPT EXCERPT:\n%s\n", ai.TruncateRunes(in.Transcript, transcriptExcerptLimit))
	}
	return fmt.Sprintf(promptTemplate, in.Title, description, transcriptSection)
}
