package models

// DefaultTranscriptLanguages is tried in order when a request names no languages.
var DefaultTranscriptLanguages = []string{"en", "en-US", "en-GB"}

// TranscriptSegment is one timed caption unit.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type TranscriptRequest struct {
	VideoID   string   `json:"video_id" binding:"required"`
	Languages []string `json:"languages"`
}

// TranscriptResult is the outcome of one transcript fetch. Success implies a
// non-empty Transcript; failures carry a human readable Error instead.
type TranscriptResult struct {
	Success         bool     `json:"success"`
	VideoID         string   `json:"video_id"`
	Transcript      string   `json:"transcript,omitempty"`
	Language        string   `json:"language,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	Error           string   `json:"error,omitempty"`
}
