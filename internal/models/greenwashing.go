package models

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type FlagType string

const (
	FlagPositive FlagType = "positive"
	FlagWarning  FlagType = "warning"
	FlagRisk     FlagType = "risk"
	FlagInfo     FlagType = "info"
)

// Valid reports whether t is one of the known flag types.
func (t FlagType) Valid() bool {
	switch t {
	case FlagPositive, FlagWarning, FlagRisk, FlagInfo:
		return true
	}
	return false
}

type GreenwashingFlag struct {
	Type     FlagType `json:"type"`
	Text     string   `json:"text"`
	Evidence string   `json:"evidence,omitempty"`
}

type GreenwashingRequest struct {
	VideoID                string `json:"video_id" binding:"required"`
	Title                  string `json:"title"`
	Description            string `json:"description"`
	Transcript             string `json:"transcript"`
	ChannelSubscriberCount int64  `json:"channel_subscriber_count"`
}

type GreenwashingResult struct {
	Success           bool               `json:"success"`
	VideoID           string             `json:"video_id"`
	TransparencyScore int                `json:"transparency_score"` // 0-100
	RiskLevel         RiskLevel          `json:"risk_level"`
	Flags             []GreenwashingFlag `json:"flags"`
	Method            string             `json:"method"`
	Error             string             `json:"error,omitempty"`
}

// RiskLevelFor maps a transparency score onto a risk level.
func RiskLevelFor(transparency int) RiskLevel {
	switch {
	case transparency < 40:
		return RiskHigh
	case transparency < 70:
		return RiskMedium
	default:
		return RiskLow
	}
}
