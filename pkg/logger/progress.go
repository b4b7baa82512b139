package logger

import (
	"fmt"
	"time"
)

// ProgressReporter logs batch progress at a bounded rate. The documenter
// loop is single-threaded, so no locking is needed here.
type ProgressReporter struct {
	total       int
	current     int
	description string
	startTime   time.Time
	lastReport  time.Time
	interval    time.Duration
	logger      *Logger
}

// NewProgressReporter creates a reporter for a batch of the given size.
func NewProgressReporter(total int, description string) *ProgressReporter {
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		lastReport:  time.Now(),
		interval:    5 * time.Second,
		logger:      GetLogger().WithField("component", "progress"),
	}
}

// Update advances the counter and reports when the interval has elapsed
// or the batch just finished.
func (pr *ProgressReporter) Update(increment int) {
	pr.current += increment
	now := time.Now()

	if now.Sub(pr.lastReport) >= pr.interval || pr.current >= pr.total {
		pr.report()
		pr.lastReport = now
	}
}

// Complete forces a final report.
func (pr *ProgressReporter) Complete() {
	pr.current = pr.total
	pr.report()
}

func (pr *ProgressReporter) report() {
	if pr.total <= 0 {
		return
	}

	percentage := float64(pr.current) / float64(pr.total) * 100
	elapsed := time.Since(pr.startTime)

	var eta string
	if pr.current > 0 && pr.current < pr.total {
		avgPerItem := elapsed / time.Duration(pr.current)
		remaining := time.Duration(pr.total-pr.current) * avgPerItem
		eta = fmt.Sprintf(" (ETA: %s)", remaining.Round(time.Second))
	}

	pr.logger.WithFields(map[string]interface{}{
		"current": pr.current,
		"total":   pr.total,
		"elapsed": elapsed.Round(time.Second).String(),
	}).Info(fmt.Sprintf("%s: %d/%d (%.1f%%)%s", pr.description, pr.current, pr.total, percentage, eta))
}
