package monitoring

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"silenced-backend/internal/models"
)

// Monitor counts analysis outcomes and tracks the last scheduled job run.
// Counters are safe for concurrent use from request goroutines.
type Monitor struct {
	startedAt time.Time

	transcriptSuccess atomic.Int64
	transcriptFailure atomic.Int64

	qualityGemini    atomic.Int64
	qualityHeuristic atomic.Int64

	greenwashingGemini    atomic.Int64
	greenwashingHeuristic atomic.Int64
	greenwashingSkipped   atomic.Int64

	biasReceipts atomic.Int64
	analyses     atomic.Int64

	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds         int64     `json:"uptime_seconds"`
	TranscriptSuccess     int64     `json:"transcript_success"`
	TranscriptFailure     int64     `json:"transcript_failure"`
	QualityGemini         int64     `json:"quality_gemini"`
	QualityHeuristic      int64     `json:"quality_heuristic"`
	GreenwashingGemini    int64     `json:"greenwashing_gemini"`
	GreenwashingHeuristic int64     `json:"greenwashing_heuristic"`
	GreenwashingSkipped   int64     `json:"greenwashing_skipped"`
	BiasReceipts          int64     `json:"bias_receipts"`
	Analyses              int64     `json:"analyses"`
	LastReportSuccess     bool      `json:"last_report_success"`
	LastReportTime        time.Time `json:"last_report_time"`
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now()}
}

func (m *Monitor) RecordTranscript(result *models.TranscriptResult) {
	if result == nil {
		return
	}
	if result.Success {
		m.transcriptSuccess.Add(1)
	} else {
		m.transcriptFailure.Add(1)
	}
}

func (m *Monitor) RecordQuality(result *models.QualityResult) {
	if result == nil {
		return
	}
	switch result.Method {
	case models.MethodGemini, models.MethodGeminiTranscript:
		m.qualityGemini.Add(1)
	default:
		m.qualityHeuristic.Add(1)
	}
}

func (m *Monitor) RecordGreenwashing(result *models.GreenwashingResult) {
	if result == nil {
		return
	}
	switch result.Method {
	case models.MethodGemini:
		m.greenwashingGemini.Add(1)
	case models.MethodSkip:
		m.greenwashingSkipped.Add(1)
	default:
		m.greenwashingHeuristic.Add(1)
	}
}

func (m *Monitor) RecordBiasReceipt() {
	m.biasReceipts.Add(1)
}

// RecordAnalysis counts the analysis itself and each of its parts.
func (m *Monitor) RecordAnalysis(result *models.AnalysisResult) {
	m.analyses.Add(1)
	m.RecordTranscript(result.Transcript)
	m.RecordQuality(result.Quality)
	m.RecordGreenwashing(result.Greenwashing)
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	logrus.WithField("duration", duration).Infof("Run completed successfully - %s", summary)
}

func (m *Monitor) RecordFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.mu.Unlock()

	logrus.WithError(err).WithField("duration", duration).Error("Run failed")
}

func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	lastSuccess, lastTime := m.lastRunSuccess, m.lastRunTime
	m.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:         int64(time.Since(m.startedAt).Seconds()),
		TranscriptSuccess:     m.transcriptSuccess.Load(),
		TranscriptFailure:     m.transcriptFailure.Load(),
		QualityGemini:         m.qualityGemini.Load(),
		QualityHeuristic:      m.qualityHeuristic.Load(),
		GreenwashingGemini:    m.greenwashingGemini.Load(),
		GreenwashingHeuristic: m.greenwashingHeuristic.Load(),
		GreenwashingSkipped:   m.greenwashingSkipped.Load(),
		BiasReceipts:          m.biasReceipts.Load(),
		Analyses:              m.analyses.Load(),
		LastReportSuccess:     lastSuccess,
		LastReportTime:        lastTime,
	}
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("Last run: %s", m.lastRunTime.Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("Last run failed: %s", m.lastRunTime.Format("Jan 2 15:04"))
}

// Summary formats the counters on one line for logs.
func (s Snapshot) Summary() string {
	return fmt.Sprintf(
		"transcripts %d ok / %d failed, quality %d gemini / %d heuristic, greenwashing %d gemini / %d heuristic / %d skipped, %d bias receipts, %d analyses",
		s.TranscriptSuccess, s.TranscriptFailure,
		s.QualityGemini, s.QualityHeuristic,
		s.GreenwashingGemini, s.GreenwashingHeuristic, s.GreenwashingSkipped,
		s.BiasReceipts, s.Analyses,
	)
}
