// Package stats contains statistics aggregation and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ahmed-okal1/typing/internal/model"
	"github.com/ahmed-okal1/typing/internal/store"
)

const defaultReportWidth = 60

// Report contains precomputed data for stats rendering.
type Report struct {
	Results   []model.ResultAggregate
	KeyErrors []model.KeyErrorAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.ResultID
	}
	keyErrors, err := st.ListKeyErrorAggregates(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	return Report{Results: results, KeyErrors: keyErrors}, nil
}

// RenderReport prints a plain-text report: summary, learning curves, and
// the most missed keys.
func RenderReport(w io.Writer, report Report, window int) error {
	if len(report.Results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	if err := renderSummary(w, report.Results); err != nil {
		return err
	}
	if err := renderCurves(w, report.Results, window, curveWidth()); err != nil {
		return err
	}
	return renderMissedKeys(w, report.KeyErrors)
}

func renderSummary(w io.Writer, results []model.ResultAggregate) error {
	summary := Summarize(results)
	totalTime := time.Duration(summary.TotalTimeMs) * time.Millisecond
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", summary.TotalTests),
		fmt.Sprintf("Avg WPM: %.1f", summary.AverageWPM),
		fmt.Sprintf("Best WPM: %.1f", summary.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", summary.AverageAccuracy),
		fmt.Sprintf("Best Accuracy: %.1f%%", summary.BestAccuracy),
		fmt.Sprintf("Practice time: %s", totalTime.Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderCurves(w io.Writer, results []model.ResultAggregate, window, width int) error {
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
		accs[i] = r.Accuracy
	}
	wpms = Resample(MovingAverage(wpms, window), width)
	accs = Resample(MovingAverage(accs, window), width)

	lines := []string{
		"Learning Curves",
		fmt.Sprintf("WPM      %s", Sparkline(wpms)),
		fmt.Sprintf("Accuracy %s", Sparkline(accs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderMissedKeys(w io.Writer, aggs []model.KeyErrorAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No missed keys recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Most Missed Keys"); err != nil {
		return err
	}
	top := TopMissedKeys(aggs, 10)
	rows := make([][]string, 0, len(top))
	for _, agg := range top {
		label := agg.Key
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, []string{label, fmt.Sprintf("%d", agg.Count)})
	}
	lines := formatTable([]string{"Key", "Misses"}, rows, map[int]bool{1: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func curveWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 12 {
		return defaultReportWidth
	}
	return width - 10
}
