package quality

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"silenced-backend/internal/models"
	"silenced-backend/shared/ai"
)

const transcriptExcerptLimit = 8000

const promptTemplate = `You are a video quality analyst. Score this video for relevance and quality.

VIDEO INFO:
Title: %s
Channel: %s
Subscribers: %d
Search Query/Topic: %s

%s
Analyze and return JSON with:
{
  "relevance_score": <0-100 how relevant to the search query>,
  "quality_score": <0-100 based on production quality, depth, expertise>,
  "content_depth_score": <0-100 based on transcript analysis, null if no transcript>,
  "reason": "<brief explanation>",
  "flags": ["<list of quality indicators or concerns>"]
}

Consider:
- Relevance: Does it actually address the topic?
- Quality: Is it well-produced? Expert perspective?
- Depth: Does it provide real value, not just clickbait?
- Red flags: Clickbait, misleading title, low effort content

Respond with ONLY valid JSON.`

type llmResponse struct {
	RelevanceScore    *float64 `json:"relevance_score"`
	QualityScore      *float64 `json:"quality_score"`
	ContentDepthScore *float64 `json:"content_depth_score"`
	Reason            *string  `json:"reason"`
	Flags             []string `json:"flags"`
}

// LLMStrategy asks a language model for 0-100 scores and normalizes them.
type LLMStrategy struct {
	completer ai.Completer
}

func NewLLMStrategy(completer ai.Completer) *LLMStrategy {
	return &LLMStrategy{completer: completer}
}

func (s *LLMStrategy) Name() string { return "gemini" }

func (s *LLMStrategy) Score(ctx context.Context, in Input) (*models.QualityResult, error) {
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
	if err := ai.RejectNulls(fields, "relevance_score", "quality_score", "reason", "flags"); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "decode response: %v", err)
	}

	relevance := clamp01(valueOr(resp.RelevanceScore, 50) / 100)
	quality := clamp01(valueOr(resp.QualityScore, 50) / 100)

	// A depth of 0 counts as no depth judgement.
	var depth *float64
	if resp.ContentDepthScore != nil && *resp.ContentDepthScore != 0 {
		d := clamp01(*resp.ContentDepthScore / 100)
		depth = &d
	}

	reason := "AI analysis"
	if resp.Reason != nil {
		reason = *resp.Reason
	}

	result := &models.QualityResult{
		RelevanceScore: round2(relevance),
		QualityScore:   round2(quality),
		CombinedScore:  round2(llmCombined(relevance, quality, depth)),
		Method:         models.MethodGemini,
		Reason:         reason,
		Flags:          resp.Flags,
	}
	if depth != nil {
		d := round2(*depth)
		result.ContentDepthScore = &d
	}
	if in.Transcript != "" {
		result.Method = models.MethodGeminiTranscript
	}
	return result, nil
}

// BuildPrompt renders the scoring prompt, adding a transcript excerpt when
// one is available.
func BuildPrompt(in Input) string {
	transcriptSection := ""
	if in.Transcript != "" {
		transcriptSection = fmt.Sprintf("TRANSCRIPT EXCERPT:\n%s\n", ai.TruncateRunes(in.Transcript, transcriptExcerptLimit))
	}
	return fmt.Sprintf(promptTemplate, in.Title, in.ChannelTitle, in.SubscriberCount, in.Query, transcriptSection)
}

func llmCombined(relevance, quality float64, depth *float64) float64 {
	if depth == nil {
		return relevance*0.5 + quality*0.5
	}
	return relevance*0.3 + quality*0.3 + *depth*0.4
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
