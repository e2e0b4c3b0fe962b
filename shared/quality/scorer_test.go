package quality

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silenced-backend/internal/models"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestHeuristicBounds(t *testing.T) {
	longTranscript := strings.Repeat("research shows the data and evidence ", 200)
	tests := []struct {
		name string
		in   Input
	}{
		{name: "empty", in: Input{VideoID: "v"}},
		{name: "everything positive", in: Input{
			VideoID:         "v",
			Title:           "Solar energy research explained",
			Description:     strings.Repeat("solar energy research ", 20),
			Transcript:      longTranscript,
			SubscriberCount: 5_000_000,
			Query:           "solar energy research explained",
		}},
		{name: "everything negative", in: Input{
			VideoID:     "v",
			Title:       "INSANE SHOCKING EXPOSED GONE WRONG!!! 😱🤯",
			Description: "you won't believe this clickbait",
			Query:       "gardening",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Heuristic{}.Score(context.Background(), tt.in)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, result.RelevanceScore, 0.0)
			assert.LessOrEqual(t, result.RelevanceScore, 1.0)
			assert.GreaterOrEqual(t, result.QualityScore, 0.0)
			assert.LessOrEqual(t, result.QualityScore, 1.0)
			assert.GreaterOrEqual(t, result.CombinedScore, 0.0)
			assert.LessOrEqual(t, result.CombinedScore, 1.0)
			if result.ContentDepthScore != nil {
				assert.GreaterOrEqual(t, *result.ContentDepthScore, 0.0)
				assert.LessOrEqual(t, *result.ContentDepthScore, 1.0)
			}
		})
	}
}

func TestHeuristicClickbaitTitle(t *testing.T) {
	result, err := Heuristic{}.Score(context.Background(), Input{
		VideoID: "v",
		Title:   "THIS IS SHOCKING YOU WON'T BELIEVE!!!",
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, result.QualityScore, 0.3)
	assert.Contains(t, result.Flags, "Potential clickbait (3 indicators)")
	assert.Contains(t, result.Flags, "ALL CAPS title")
	assert.Equal(t, models.MethodHeuristic, result.Method)
}

func TestHeuristicRelevanceExactTitle(t *testing.T) {
	for _, query := range []string{
		"Solar Panel Installation Guide",
		"how plastic recycling works",
		"ocean cleanup progress",
	} {
		t.Run(query, func(t *testing.T) {
			result, err := Heuristic{}.Score(context.Background(), Input{VideoID: "v", Title: query, Query: query})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.RelevanceScore, 0.8)
		})
	}
}

func TestHeuristicDepth(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		wantDepth  *float64
		wantMethod string
	}{
		{name: "no transcript", wantMethod: models.MethodHeuristic},
		{name: "short transcript", transcript: "too short", wantMethod: models.MethodHeuristicTranscript},
		{name: "medium transcript", transcript: strings.Repeat("a", 600), wantDepth: ptr(0.5), wantMethod: models.MethodHeuristicTranscript},
		{name: "long transcript", transcript: strings.Repeat("a", 2500), wantDepth: ptr(0.7), wantMethod: models.MethodHeuristicTranscript},
		{name: "very long educational", transcript: "according to the research " + strings.Repeat("a", 6000), wantDepth: ptr(1.0), wantMethod: models.MethodHeuristicTranscript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Heuristic{}.Score(context.Background(), Input{VideoID: "v", Title: "t", Transcript: tt.transcript})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, result.Method)
			if tt.wantDepth == nil {
				assert.Nil(t, result.ContentDepthScore)
				return
			}
			require.NotNil(t, result.ContentDepthScore)
			assert.InDelta(t, *tt.wantDepth, *result.ContentDepthScore, 1e-9)
		})
	}
}

func TestHeuristicIdempotent(t *testing.T) {
	in := Input{
		VideoID:         "v",
		Title:           "Climate data explained",
		Description:     "A look at the research",
		Transcript:      strings.Repeat("study evidence ", 100),
		SubscriberCount: 20000,
		Query:           "climate data",
	}
	first, err := Heuristic{}.Score(context.Background(), in)
	require.NoError(t, err)
	second, err := Heuristic{}.Score(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCombinedWeightings(t *testing.T) {
	// Without depth the heuristic uses 0.4/0.4 while the LLM uses 0.5/0.5.
	assert.InDelta(t, 0.8, heuristicCombined(1, 1, nil), 1e-9)
	assert.InDelta(t, 1.0, llmCombined(1, 1, nil), 1e-9)

	depth := 0.5
	assert.InDelta(t, 0.5, heuristicCombined(0.5, 0.5, &depth), 1e-9)
	assert.InDelta(t, 0.5, llmCombined(0.5, 0.5, &depth), 1e-9)

	result, err := Heuristic{}.Score(context.Background(), Input{VideoID: "v", Title: "plain title"})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, result.CombinedScore, 1e-9)
}

func TestLLMStrategyFencedJSON(t *testing.T) {
	completer := &fakeCompleter{response: "```json\n" + `{
  "relevance_score": 90,
  "quality_score": 70,
  "content_depth_score": null,
  "reason": "On topic and well sourced",
  "flags": ["expert host"]
}` + "\n```"}

	result, err := NewLLMStrategy(completer).Score(context.Background(), Input{VideoID: "v", Title: "t", Query: "q"})
	require.NoError(t, err)

	assert.InDelta(t, 0.9, result.RelevanceScore, 1e-9)
	assert.InDelta(t, 0.7, result.QualityScore, 1e-9)
	assert.Nil(t, result.ContentDepthScore)
	assert.InDelta(t, 0.8, result.CombinedScore, 1e-9)
	assert.Equal(t, "On topic and well sourced", result.Reason)
	assert.Equal(t, []string{"expert host"}, result.Flags)
	assert.Equal(t, models.MethodGemini, result.Method)
}

func TestLLMStrategyDefaultsAndClamping(t *testing.T) {
	completer := &fakeCompleter{response: `{"content_depth_score": 150}`}

	result, err := NewLLMStrategy(completer).Score(context.Background(), Input{VideoID: "v", Title: "t", Transcript: "words"})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, result.RelevanceScore, 1e-9)
	assert.InDelta(t, 0.5, result.QualityScore, 1e-9)
	require.NotNil(t, result.ContentDepthScore)
	assert.InDelta(t, 1.0, *result.ContentDepthScore, 1e-9)
	assert.InDelta(t, 0.7, result.CombinedScore, 1e-9)
	assert.Equal(t, "AI analysis", result.Reason)
	assert.Equal(t, models.MethodGeminiTranscript, result.Method)
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "TRANSCRIPT EXCERPT:\nwords")
}

func TestLLMStrategyUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{name: "provider error", completer: &fakeCompleter{err: errors.New("quota exceeded")}},
		{name: "garbage", completer: &fakeCompleter{response: "I cannot help with that."}},
		{name: "bare null", completer: &fakeCompleter{response: "null"}},
		{name: "array", completer: &fakeCompleter{response: `[{"relevance_score": 80}]`}},
		{name: "null relevance", completer: &fakeCompleter{response: `{"relevance_score": null, "quality_score": 90}`}},
		{name: "null quality", completer: &fakeCompleter{response: `{"relevance_score": 90, "quality_score": null}`}},
		{name: "null reason", completer: &fakeCompleter{response: `{"relevance_score": 90, "quality_score": 90, "reason": null}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLMStrategy(tt.completer).Score(context.Background(), Input{VideoID: "v", Title: "t"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestScorerFallsBackToHeuristic(t *testing.T) {
	scorer := NewScorer(&fakeCompleter{response: "not json at all"})
	in := Input{VideoID: "abc", Title: "Gardening basics", Query: "gardening"}

	result := scorer.Score(context.Background(), in)

	assert.True(t, result.Success)
	assert.Equal(t, "abc", result.VideoID)
	assert.Equal(t, models.MethodHeuristic, result.Method)
	assert.NotNil(t, result.Flags)
}

func TestScorerFallsBackOnNullResponse(t *testing.T) {
	for _, response := range []string{"null", `{"relevance_score": null, "quality_score": 90}`} {
		t.Run(response, func(t *testing.T) {
			result := NewScorer(&fakeCompleter{response: response}).Score(context.Background(), Input{VideoID: "abc", Title: "t"})
			assert.Equal(t, models.MethodHeuristic, result.Method)
		})
	}
}

func TestLLMStrategyZeroDepth(t *testing.T) {
	completer := &fakeCompleter{response: `{"relevance_score": 80, "quality_score": 60, "content_depth_score": 0}`}

	result, err := NewLLMStrategy(completer).Score(context.Background(), Input{VideoID: "v", Title: "t", Transcript: "words"})
	require.NoError(t, err)

	assert.Nil(t, result.ContentDepthScore)
	assert.InDelta(t, 0.7, result.CombinedScore, 1e-9)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.7, 0.7},
		{0.125, 0.12},
		{0.375, 0.38},
		{0.1449, 0.14},
		{1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestScorerPrefersLLM(t *testing.T) {
	scorer := NewScorer(&fakeCompleter{response: `{"relevance_score": 80, "quality_score": 60, "reason": "ok", "flags": []}`})

	result := scorer.Score(context.Background(), Input{VideoID: "abc", Title: "t"})

	assert.True(t, result.Success)
	assert.Equal(t, models.MethodGemini, result.Method)
	assert.InDelta(t, 0.7, result.CombinedScore, 1e-9)
}

func TestScorerWithoutCompleter(t *testing.T) {
	result := NewScorer(nil).Score(context.Background(), Input{VideoID: "abc", Title: "t"})
	assert.Equal(t, models.MethodHeuristic, result.Method)
}

func ptr(v float64) *float64 { return &v }
