package models

// Quality scoring method tags.
const (
	MethodGemini              = "gemini"
	MethodGeminiTranscript    = "gemini-transcript"
	MethodHeuristic           = "heuristic"
	MethodHeuristicTranscript = "heuristic-transcript"
	MethodSkip                = "skip"
)

type QualityScoreRequest struct {
	VideoID         string `json:"video_id" binding:"required"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Transcript      string `json:"transcript"`
	ChannelTitle    string `json:"channel_title"`
	SubscriberCount int64  `json:"subscriber_count"`
	Query           string `json:"query"`
}

// QualityResult holds scores in [0,1]. ContentDepthScore is nil when no
// transcript (or too short a transcript) was available to judge depth.
type QualityResult struct {
	Success           bool     `json:"success"`
	VideoID           string   `json:"video_id"`
	RelevanceScore    float64  `json:"relevance_score"`
	QualityScore      float64  `json:"quality_score"`
	ContentDepthScore *float64 `json:"content_depth_score"`
	CombinedScore     float64  `json:"combined_score"`
	Method            string   `json:"method"`
	Reason            string   `json:"reason"`
	Flags             []string `json:"flags"`
	Error             string   `json:"error,omitempty"`
}
