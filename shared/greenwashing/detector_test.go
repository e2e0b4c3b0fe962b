package greenwashing

import (
	"context"
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

func TestPrefilterSkip(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{name: "cooking video", in: Input{VideoID: "v", Title: "Best pasta recipe", Description: "Quick and easy"}},
		{name: "green alone is not a keyword", in: Input{VideoID: "v", Title: "Our New Green Initiative"}},
		{name: "transcript is ignored", in: Input{VideoID: "v", Title: "Vlog", Transcript: "climate carbon emissions", ChannelSubscriberCount: 5_000_000}},
	}

	completer := &fakeCompleter{response: `{"transparency_score": 10}`}
	d := NewDetector(completer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Detect(context.Background(), tt.in)

			assert.True(t, result.Success)
			assert.Equal(t, 100, result.TransparencyScore)
			assert.Equal(t, models.RiskLow, result.RiskLevel)
			assert.Equal(t, models.MethodSkip, result.Method)
			require.Len(t, result.Flags, 1)
			assert.Equal(t, models.FlagInfo, result.Flags[0].Type)
			assert.Equal(t, "Not sustainability-related content", result.Flags[0].Text)
		})
	}
	assert.Empty(t, completer.prompts)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name             string
		in               Input
		wantTransparency int
		wantRisk         models.RiskLevel
		wantFlags        []string
	}{
		{
			name:             "vague claim without evidence",
			in:               Input{Title: "Our New Green Initiative for the climate"},
			wantTransparency: 45,
			wantRisk:         models.RiskMedium,
			wantFlags: []string{
				"Found 1 vague sustainability term(s) without evidence",
				"Sustainability claims without specific metrics",
			},
		},
		{
			name:             "large channel",
			in:               Input{Title: "Eco-friendly sustainable products", ChannelSubscriberCount: 2_000_000},
			wantTransparency: 25,
			wantRisk:         models.RiskHigh,
			wantFlags: []string{
				"Found 1 vague sustainability term(s) without evidence",
				"Large channel making sustainability claims - verify independence",
				"Sustainability claims without specific metrics",
			},
		},
		{
			name:             "evidence based",
			in:               Input{Title: "Carbon emissions research", Description: "IPCC data shows 1.5C of warming"},
			wantTransparency: 100,
			wantRisk:         models.RiskLow,
			wantFlags:        []string{"Contains evidence-based language"},
		},
		{
			name:             "more vague than evidence",
			in:               Input{Title: "green clean natural climate", Description: "one study"},
			wantTransparency: 60,
			wantRisk:         models.RiskMedium,
			wantFlags: []string{
				"More vague claims (3) than evidence (1)",
				"Sustainability claims without specific metrics",
			},
		},
		{
			name:             "metrics present",
			in:               Input{Title: "Our carbon neutral plan", Transcript: "cutting 40 percent by 2030"},
			wantTransparency: 60,
			wantRisk:         models.RiskMedium,
			wantFlags:        []string{"Found 1 vague sustainability term(s) without evidence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Heuristic{}.Detect(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTransparency, result.TransparencyScore)
			assert.Equal(t, tt.wantRisk, result.RiskLevel)
			assert.Equal(t, models.MethodHeuristic, result.Method)

			texts := make([]string, 0, len(result.Flags))
			for _, f := range result.Flags {
				texts = append(texts, f.Text)
			}
			assert.Equal(t, tt.wantFlags, texts)
		})
	}
}

func TestHeuristicIdempotent(t *testing.T) {
	in := Input{
		VideoID:                "v",
		Title:                  "Sustainable fashion is eco-friendly",
		Description:            "Natural fibres, verified by research",
		Transcript:             "We measured 30% less water use",
		ChannelSubscriberCount: 3_000_000,
	}
	first, err := Heuristic{}.Detect(context.Background(), in)
	require.NoError(t, err)
	second, err := Heuristic{}.Detect(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLLMStrategy(t *testing.T) {
	completer := &fakeCompleter{response: "```json\n" + `{
  "transparency_score": 34.6,
  "flags": [
    {"type": "warning", "text": "Uses 'eco-friendly' without data", "evidence": "eco-friendly"},
    {"type": "concern", "text": "Unclear sourcing"}
  ]
}` + "\n```"}

	result, err := NewLLMStrategy(completer).Detect(context.Background(), Input{VideoID: "v", Title: "Eco-friendly climate plan"})
	require.NoError(t, err)

	assert.Equal(t, 35, result.TransparencyScore)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.Equal(t, models.MethodGemini, result.Method)
	require.Len(t, result.Flags, 2)
	assert.Equal(t, models.FlagWarning, result.Flags[0].Type)
	assert.Equal(t, "eco-friendly", result.Flags[0].Evidence)
	assert.Equal(t, models.FlagInfo, result.Flags[1].Type)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Description: No description")
}

func TestLLMStrategyDefaults(t *testing.T) {
	result, err := NewLLMStrategy(&fakeCompleter{response: `{"transparency_score": 250}`}).
		Detect(context.Background(), Input{VideoID: "v", Title: "climate"})
	require.NoError(t, err)
	assert.Equal(t, 100, result.TransparencyScore)
	assert.Empty(t, result.Flags)

	result, err = NewLLMStrategy(&fakeCompleter{response: `{}`}).
		Detect(context.Background(), Input{VideoID: "v", Title: "climate"})
	require.NoError(t, err)
	assert.Equal(t, 50, result.TransparencyScore)
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
}

func TestLLMStrategyHugeScore(t *testing.T) {
	tests := []struct {
		response string
		want     int
		risk     models.RiskLevel
	}{
		{response: `{"transparency_score": 1e20}`, want: 100, risk: models.RiskLow},
		{response: `{"transparency_score": -1e20}`, want: 0, risk: models.RiskHigh},
		{response: `{"transparency_score": 69.6}`, want: 70, risk: models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			result, err := NewLLMStrategy(&fakeCompleter{response: tt.response}).
				Detect(context.Background(), Input{VideoID: "v", Title: "climate"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.TransparencyScore)
			assert.Equal(t, tt.risk, result.RiskLevel)
		})
	}
}

func TestDetectorFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{name: "provider error", completer: &fakeCompleter{err: errors.New("deadline exceeded")}},
		{name: "garbage", completer: &fakeCompleter{response: "Sure! Here is my analysis."}},
		{name: "bare null", completer: &fakeCompleter{response: "null"}},
		{name: "null score", completer: &fakeCompleter{response: `{"transparency_score": null, "flags": []}`}},
		{name: "null flags", completer: &fakeCompleter{response: `{"transparency_score": 80, "flags": null}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewDetector(tt.completer).Detect(context.Background(), Input{VideoID: "abc", Title: "Sustainable living"})
			assert.True(t, result.Success)
			assert.Equal(t, "abc", result.VideoID)
			assert.Equal(t, models.MethodHeuristic, result.Method)
		})
	}
}

func TestLLMStrategyUnavailable(t *testing.T) {
	_, err := NewLLMStrategy(&fakeCompleter{response: "nope"}).Detect(context.Background(), Input{Title: "climate"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
