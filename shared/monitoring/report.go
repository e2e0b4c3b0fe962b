package monitoring

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ReportJob logs a usage summary each time the scheduler fires.
type ReportJob struct {
	monitor  *Monitor
	previous Snapshot
}

func NewReportJob(monitor *Monitor) *ReportJob {
	return &ReportJob{monitor: monitor}
}

func (j *ReportJob) Name() string { return "usage-report" }

// RunOnce logs totals and the change since the previous run. The scheduler
// never runs two reports at once, so previous needs no lock.
func (j *ReportJob) RunOnce(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	current := j.monitor.Snapshot()
	prev := j.previous
	j.previous = current

	logrus.WithFields(logrus.Fields{
		"new_transcripts":  (current.TranscriptSuccess + current.TranscriptFailure) - (prev.TranscriptSuccess + prev.TranscriptFailure),
		"new_quality":      (current.QualityGemini + current.QualityHeuristic) - (prev.QualityGemini + prev.QualityHeuristic),
		"new_greenwashing": (current.GreenwashingGemini + current.GreenwashingHeuristic + current.GreenwashingSkipped) - (prev.GreenwashingGemini + prev.GreenwashingHeuristic + prev.GreenwashingSkipped),
		"new_bias":         current.BiasReceipts - prev.BiasReceipts,
		"new_analyses":     current.Analyses - prev.Analyses,
		"uptime_seconds":   current.UptimeSeconds,
	}).Info("Usage report")

	return current.Summary(), nil
}
