package models

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type BiasReceiptRequest struct {
	VideoID            string  `json:"video_id" binding:"required"`
	SubscriberCount    int64   `json:"subscriber_count"`
	ViewsPerDay        float64 `json:"views_per_day"`
	EngagementRatio    float64 `json:"engagement_ratio"`
	AvgSubsInTopic     int64   `json:"avg_subs_in_topic"`
	TopicConcentration int     `json:"topic_concentration"` // percent
	VideoTitle         string  `json:"video_title"`
	ChannelTitle       string  `json:"channel_title"`
}

// NewBiasReceiptRequest returns a request pre-filled with the topic defaults
// used when the client omits them.
func NewBiasReceiptRequest() BiasReceiptRequest {
	return BiasReceiptRequest{
		AvgSubsInTopic:     100000,
		TopicConcentration: 50,
	}
}

type BiasReceipt struct {
	Success     bool       `json:"success"`
	VideoID     string     `json:"video_id"`
	WhyNotShown []string   `json:"why_not_shown"`
	WhySurfaced []string   `json:"why_surfaced"`
	Confidence  Confidence `json:"confidence"`
	Method      string     `json:"method"`
	Error       string     `json:"error,omitempty"`
}
