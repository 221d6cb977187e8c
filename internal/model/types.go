// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang       string
	Difficulty string
	Username   string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// User is the stored profile, updated after every saved result.
type User struct {
	Username   string
	Lang       string
	Level      int
	TotalTests int
	CreatedAt  time.Time
}

// ResultRecord captures a completed typing test for persistence.
type ResultRecord struct {
	FinishedAt          time.Time
	Lang                string
	Difficulty          string
	TextID              string
	WPM                 float64
	Accuracy            float64
	SpeedScore          int
	AccuracyScore       int
	OverallScore        int
	DurationMs          int64
	TotalKeystrokes     int
	CorrectKeystrokes   int
	IncorrectKeystrokes int
}

// ResultAggregate summarizes a stored result for reporting.
type ResultAggregate struct {
	ResultID     int64
	FinishedAt   time.Time
	Lang         string
	Difficulty   string
	WPM          float64
	Accuracy     float64
	OverallScore int
	DurationMs   int64
}

// KeyErrorAggregate sums miss counts for an expected key across results.
type KeyErrorAggregate struct {
	Key   string
	Count int
}
