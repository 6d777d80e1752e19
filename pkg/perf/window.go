package perf

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tally/pkg/pattern"
)

// Window identifies a reporting time window.
type Window string

// Reporting windows for time-based performance.
const (
	Window24h Window = "24h"
	Window7d  Window = "7d"
	Window30d Window = "30d"
	WindowAll Window = "all"
)

// decayHalfLife is the half-life applied to outcome weight in the all-time
// index, matching the 30-day confidence decay used for learned memories.
const decayHalfLife = 30 * 24 * time.Hour

// Index weights: success rate dominates, quality second, speed third.
const (
	indexWeightSuccess = 0.5
	indexWeightQuality = 0.3
	indexWeightSpeed   = 0.2
)

// speedBaseline is the duration that scores a neutral 0.5 speed factor.
// Faster tasks approach 1, slower approach 0.
const speedBaseline = 600.0 // seconds

// Trend classifies the direction of an agent's recent performance.
type Trend string

// Trend values from comparing the 7d index against the 30d index.
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendNoData    Trend = "no data"
)

// trendEpsilon is the index delta below which the trend reads as stable.
const trendEpsilon = 0.05

// WindowStats aggregates debug outcomes inside one window.
type WindowStats struct {
	Window      Window  `json:"window"`
	TaskCount   int     `json:"task_count"`
	SuccessRate float64 `json:"success_rate"`
	MeanQuality float64 `json:"mean_quality"`
	Index       float64 `json:"index"`
}

// DebugReport is the time-based debugging performance report for one agent.
type DebugReport struct {
	Agent   string        `json:"agent"`
	Windows []WindowStats `json:"windows"`
	Trend   Trend         `json:"trend"`
}

// ParseWindow validates a window flag value.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case Window24h, Window7d, Window30d, WindowAll:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown window %q (want 24h, 7d, 30d or all)", s)
}

// cutoff returns the earliest timestamp inside the window, or zero time for
// the all-time window.
func (w Window) cutoff(now time.Time) time.Time {
	switch w {
	case Window24h:
		return now.Add(-24 * time.Hour)
	case Window7d:
		return now.Add(-7 * 24 * time.Hour)
	case Window30d:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// DebugPerformance computes the time-based debugging performance report for
// one agent from recorded debug patterns. Windows with no outcomes carry a
// zero index; the trend compares the 7d index against the 30d index.
func DebugPerformance(patterns []pattern.Pattern, agent string, now time.Time) DebugReport {
	report := DebugReport{Agent: agent, Trend: TrendNoData}

	var outcomes []pattern.Pattern
	for _, p := range patterns {
		if p.Agent != agent || p.Profile.TaskType != pattern.TaskDebug {
			continue
		}
		outcomes = append(outcomes, p)
	}

	for _, w := range []Window{Window24h, Window7d, Window30d, WindowAll} {
		report.Windows = append(report.Windows, windowStats(outcomes, w, now))
	}

	seven := report.Windows[1]
	thirty := report.Windows[2]
	if thirty.TaskCount > 0 && seven.TaskCount > 0 {
		switch delta := seven.Index - thirty.Index; {
		case delta > trendEpsilon:
			report.Trend = TrendImproving
		case delta < -trendEpsilon:
			report.Trend = TrendDeclining
		default:
			report.Trend = TrendStable
		}
	}

	return report
}

// WindowedSnapshot rebuilds per-agent aggregates from the pattern history
// restricted to one window, for reports narrower than the rolling all-time
// aggregates. Sorted by task count descending, ties broken by name.
func WindowedSnapshot(patterns []pattern.Pattern, w Window, now time.Time) []AgentStats {
	cutoff := w.cutoff(now)

	byAgent := map[string]AgentStats{}
	for _, p := range patterns {
		if !cutoff.IsZero() && p.RecordedAt.Before(cutoff) {
			continue
		}
		stats := byAgent[p.Agent]
		stats.Agent = p.Agent
		stats.TaskCount++
		if p.Outcome.Success {
			stats.SuccessCount++
		}
		stats.MeanQuality += (p.Outcome.Quality - stats.MeanQuality) / float64(stats.TaskCount)
		if p.Outcome.Duration > 0 {
			stats.DurationCount++
			stats.MeanDuration += (p.Outcome.Duration - stats.MeanDuration) / float64(stats.DurationCount)
		}
		if p.RecordedAt.After(stats.LastUsed) {
			stats.LastUsed = p.RecordedAt
		}
		byAgent[p.Agent] = stats
	}

	out := make([]AgentStats, 0, len(byAgent))
	for _, stats := range byAgent {
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskCount != out[j].TaskCount {
			return out[i].TaskCount > out[j].TaskCount
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}

// windowStats aggregates the outcomes that fall inside one window.
func windowStats(outcomes []pattern.Pattern, w Window, now time.Time) WindowStats {
	stats := WindowStats{Window: w}
	cutoff := w.cutoff(now)

	var (
		weightSum  float64
		successSum float64
		qualitySum float64
		speedSum   float64
		speedCount int
	)

	for _, p := range outcomes {
		if !cutoff.IsZero() && p.RecordedAt.Before(cutoff) {
			continue
		}
		stats.TaskCount++

		// All-time outcomes decay with age so stale history cannot mask a
		// recent regression.
		weight := 1.0
		if w == WindowAll {
			age := now.Sub(p.RecordedAt)
			if age > 0 {
				weight = math.Pow(0.5, age.Hours()/decayHalfLife.Hours())
			}
		}
		weightSum += weight
		if p.Outcome.Success {
			successSum += weight
		}
		qualitySum += weight * p.Outcome.Quality
		if p.Outcome.Duration > 0 {
			speedSum += speedBaseline / (speedBaseline + p.Outcome.Duration)
			speedCount++
		}
	}

	if stats.TaskCount == 0 || weightSum == 0 {
		return stats
	}

	stats.SuccessRate = successSum / weightSum
	stats.MeanQuality = qualitySum / weightSum

	speedFactor := 0.5 // neutral when no durations were recorded
	if speedCount > 0 {
		speedFactor = speedSum / float64(speedCount)
	}

	stats.Index = indexWeightSuccess*stats.SuccessRate +
		indexWeightQuality*stats.MeanQuality/100 +
		indexWeightSpeed*speedFactor
	return stats
}
