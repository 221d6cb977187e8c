// Package session implements the typing test scoring engine.
package session

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// ErrEmptyText is returned when the reference text contains no words.
var ErrEmptyText = errors.New("reference text contains no words")

// KeystrokeResult reports whether a keystroke was accepted and whether it
// was an error. Rejections are ordinary return values, not failures.
type KeystrokeResult struct {
	Accepted bool
	Error    bool
}

// KeyMiss counts how often an expected key was mistyped.
type KeyMiss struct {
	Key   rune
	Count int
}

// Result is the final score record for a finished session.
type Result struct {
	WPM                 float64
	Accuracy            float64
	SpeedScore          int
	AccuracyScore       int
	OverallScore        int
	Duration            float64
	TotalKeystrokes     int
	CorrectKeystrokes   int
	IncorrectKeystrokes int
	TopMissedKeys       []KeyMiss
}

// LiveStats is a point-in-time snapshot safe to poll on every keystroke.
type LiveStats struct {
	ElapsedSeconds   float64
	WPM              float64
	Accuracy         float64
	Errors           int
	CurrentWord      string
	CurrentWordInput string
	WordsCompleted   int
	TotalWords       int
}

// Session validates keystrokes against a reference text word by word and
// derives speed and accuracy statistics. It is owned by a single caller;
// all methods must be invoked sequentially.
type Session struct {
	words []string

	startTime time.Time
	endTime   time.Time

	wordIndex int
	wordInput []rune
	completed []string

	totalKeystrokes     int
	correctKeystrokes   int
	incorrectKeystrokes int

	keyErrors map[rune]int
	keyOrder  []rune

	now func() time.Time
}

// New builds a session for the given reference text. The text is split on
// whitespace; consecutive whitespace collapses. Texts with no words are
// rejected at construction.
func New(text string) (*Session, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	return &Session{
		words:     words,
		keyErrors: map[rune]int{},
		now:       time.Now,
	}, nil
}

// Start records the session start time. A second call silently resets the
// timer.
func (s *Session) Start() {
	s.startTime = s.now()
}

// Finish records the session end time.
func (s *Session) Finish() {
	s.endTime = s.now()
}

// Started reports whether Start has been called.
func (s *Session) Started() bool {
	return !s.startTime.IsZero()
}

// Duration returns the elapsed seconds between Start and Finish, or 0 when
// either timestamp is missing.
func (s *Session) Duration() float64 {
	if s.startTime.IsZero() || s.endTime.IsZero() {
		return 0
	}
	return s.endTime.Sub(s.startTime).Seconds()
}

// CurrentWord returns the reference word at the current slot, or "" when the
// session is complete.
func (s *Session) CurrentWord() string {
	if s.wordIndex < len(s.words) {
		return s.words[s.wordIndex]
	}
	return ""
}

// Complete reports whether every reference word has been typed.
func (s *Session) Complete() bool {
	return s.wordIndex >= len(s.words)
}

// TotalWords returns the number of reference words.
func (s *Session) TotalWords() int {
	return len(s.words)
}

// TypedText returns everything typed so far: completed words joined by
// spaces plus the in-progress word.
func (s *Session) TypedText() string {
	if len(s.completed) == 0 {
		return string(s.wordInput)
	}
	return strings.Join(s.completed, " ") + " " + string(s.wordInput)
}

// ProcessKeystroke consumes one input event. Backspace removes the last
// buffered character and is always accepted. A space is accepted only when
// the buffer exactly equals the current reference word; it then completes
// the word. A regular character is appended when the buffer is shorter than
// the reference word, counting toward the match statistics either way.
// Keystrokes after completion or Finish are rejected without mutating state.
func (s *Session) ProcessKeystroke(ch rune, backspace bool) KeystrokeResult {
	if backspace {
		if len(s.wordInput) > 0 {
			s.wordInput = s.wordInput[:len(s.wordInput)-1]
		}
		return KeystrokeResult{Accepted: true}
	}
	if s.Complete() || !s.endTime.IsZero() {
		return KeystrokeResult{Accepted: false, Error: true}
	}

	word := []rune(s.words[s.wordIndex])

	if ch == ' ' {
		if string(s.wordInput) != string(word) {
			// The space is a gate, not a character: a wrong word cannot
			// be skipped, and the buffer stays intact for correction.
			return KeystrokeResult{Accepted: false, Error: true}
		}
		s.completed = append(s.completed, string(s.wordInput))
		s.wordIndex++
		s.wordInput = nil
		s.totalKeystrokes++
		s.correctKeystrokes++
		return KeystrokeResult{Accepted: true}
	}

	pos := len(s.wordInput)
	if pos >= len(word) {
		// Typing is capped at the reference word's length.
		return KeystrokeResult{Accepted: false, Error: true}
	}
	expected := word[pos]
	s.wordInput = append(s.wordInput, ch)
	s.totalKeystrokes++
	if ch == expected {
		s.correctKeystrokes++
		return KeystrokeResult{Accepted: true}
	}
	s.incorrectKeystrokes++
	if _, seen := s.keyErrors[expected]; !seen {
		s.keyOrder = append(s.keyOrder, expected)
	}
	s.keyErrors[expected]++
	return KeystrokeResult{Accepted: true, Error: true}
}

// WPM computes words per minute from correct keystrokes over the given
// elapsed seconds, rounded to one decimal. Returns 0 for a non-positive
// elapsed time.
func (s *Session) WPM(elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	words := float64(s.correctKeystrokes) / 5.0
	minutes := elapsedSeconds / 60.0
	return round1(words / minutes)
}

// Accuracy computes lifetime accuracy over all keystrokes, including
// mistakes that were later corrected. Returns 100 when nothing was typed.
func (s *Session) Accuracy() float64 {
	if s.totalKeystrokes == 0 {
		return 100.0
	}
	return round1(float64(s.correctKeystrokes) / float64(s.totalKeystrokes) * 100)
}

// Scores composes the final result using the recorded duration.
func (s *Session) Scores() Result {
	wpm := s.WPM(s.Duration())
	accuracy := s.Accuracy()

	speedScore := int(math.Round(wpm))
	if speedScore > 100 {
		speedScore = 100
	}
	accuracyScore := int(math.Round(accuracy))
	overallScore := int(math.Round(float64(speedScore+accuracyScore) / 2))

	return Result{
		WPM:                 wpm,
		Accuracy:            accuracy,
		SpeedScore:          speedScore,
		AccuracyScore:       accuracyScore,
		OverallScore:        overallScore,
		Duration:            round1(s.Duration()),
		TotalKeystrokes:     s.totalKeystrokes,
		CorrectKeystrokes:   s.correctKeystrokes,
		IncorrectKeystrokes: s.incorrectKeystrokes,
		TopMissedKeys:       s.TopMissedKeys(3),
	}
}

// TopMissedKeys returns up to n expected keys ordered by miss count
// descending. Ties keep first-miss order.
func (s *Session) TopMissedKeys(n int) []KeyMiss {
	misses := make([]KeyMiss, 0, len(s.keyOrder))
	for _, key := range s.keyOrder {
		misses = append(misses, KeyMiss{Key: key, Count: s.keyErrors[key]})
	}
	sort.SliceStable(misses, func(i, j int) bool {
		return misses[i].Count > misses[j].Count
	})
	if n >= 0 && len(misses) > n {
		misses = misses[:n]
	}
	return misses
}

// CurrentStats returns live statistics for rendering. Before Start it
// returns zeroed defaults with the word-progress fields populated.
func (s *Session) CurrentStats() LiveStats {
	stats := LiveStats{
		Accuracy:         100.0,
		CurrentWord:      s.CurrentWord(),
		CurrentWordInput: string(s.wordInput),
		WordsCompleted:   len(s.completed),
		TotalWords:       len(s.words),
	}
	if s.startTime.IsZero() {
		return stats
	}
	elapsed := s.now().Sub(s.startTime).Seconds()
	stats.ElapsedSeconds = round1(elapsed)
	stats.WPM = s.WPM(elapsed)
	stats.Accuracy = s.Accuracy()
	stats.Errors = s.incorrectKeystrokes
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
