// Package stats contains statistics aggregation and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/ahmed-okal1/typing/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates stored results the way the main menu reports them.
type Summary struct {
	TotalTests      int
	AverageWPM      float64
	AverageAccuracy float64
	BestWPM         float64
	BestAccuracy    float64
	TotalTimeMs     int64
}

// Summarize computes history-wide aggregates over stored results.
func Summarize(results []model.ResultAggregate) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var summary Summary
	var totalWPM, totalAcc float64
	for _, r := range results {
		totalWPM += r.WPM
		totalAcc += r.Accuracy
		if r.WPM > summary.BestWPM {
			summary.BestWPM = r.WPM
		}
		if r.Accuracy > summary.BestAccuracy {
			summary.BestAccuracy = r.Accuracy
		}
		summary.TotalTimeMs += r.DurationMs
	}
	count := float64(len(results))
	summary.TotalTests = len(results)
	summary.AverageWPM = round1(totalWPM / count)
	summary.AverageAccuracy = round1(totalAcc / count)
	return summary
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks a series to at most width points by bucket averaging, so
// sparklines fit the terminal.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
