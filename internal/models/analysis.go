package models

type AnalyzeRequest struct {
	VideoID         string `json:"video_id" binding:"required"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ChannelTitle    string `json:"channel_title"`
	SubscriberCount int64  `json:"subscriber_count"`
	Query           string `json:"query"`
	FetchTranscript bool   `json:"fetch_transcript"`
}

// NewAnalyzeRequest returns a request with transcript fetching enabled, which
// is the behaviour when the client does not say otherwise.
func NewAnalyzeRequest() AnalyzeRequest {
	return AnalyzeRequest{FetchTranscript: true}
}

type AnalysisResult struct {
	Success      bool                `json:"success"`
	VideoID      string              `json:"video_id"`
	Metadata     *Video              `json:"metadata,omitempty"`
	Transcript   *TranscriptResult   `json:"transcript,omitempty"`
	Quality      *QualityResult      `json:"quality,omitempty"`
	Greenwashing *GreenwashingResult `json:"greenwashing,omitempty"`
	Error        string              `json:"error,omitempty"`
}
