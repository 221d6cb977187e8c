package session

import (
	"errors"
	"testing"
	"time"
)

func newTestSession(t *testing.T, text string) *Session {
	t.Helper()
	s, err := New(text)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func typeString(t *testing.T, s *Session, input string) {
	t.Helper()
	for _, r := range input {
		s.ProcessKeystroke(r, false)
		assertCounterInvariant(t, s)
	}
}

func assertCounterInvariant(t *testing.T, s *Session) {
	t.Helper()
	if s.totalKeystrokes != s.correctKeystrokes+s.incorrectKeystrokes {
		t.Fatalf("counter invariant broken: total=%d correct=%d incorrect=%d",
			s.totalKeystrokes, s.correctKeystrokes, s.incorrectKeystrokes)
	}
}

func TestNewRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n "} {
		if _, err := New(text); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText for %q, got %v", text, err)
		}
	}
}

func TestNewCollapsesWhitespace(t *testing.T) {
	s := newTestSession(t, "  cat \t dog\n")
	if s.TotalWords() != 2 {
		t.Fatalf("expected 2 words, got %d", s.TotalWords())
	}
	if s.CurrentWord() != "cat" {
		t.Fatalf("expected first word cat, got %q", s.CurrentWord())
	}
}

func TestSpaceGatedOnExactMatch(t *testing.T) {
	s := newTestSession(t, "cat dog")

	res := s.ProcessKeystroke(' ', false)
	if res.Accepted || !res.Error {
		t.Fatalf("space on empty buffer should be rejected, got %+v", res)
	}

	typeString(t, s, "ca")
	res = s.ProcessKeystroke(' ', false)
	if res.Accepted {
		t.Fatalf("space on partial word should be rejected")
	}
	if got := s.CurrentStats(); got.CurrentWordInput != "ca" || got.WordsCompleted != 0 {
		t.Fatalf("rejected space mutated state: %+v", got)
	}

	typeString(t, s, "t")
	res = s.ProcessKeystroke(' ', false)
	if !res.Accepted || res.Error {
		t.Fatalf("space on matching word should be accepted, got %+v", res)
	}
	stats := s.CurrentStats()
	if stats.WordsCompleted != 1 || stats.CurrentWordInput != "" {
		t.Fatalf("word completion state wrong: %+v", stats)
	}
	if stats.CurrentWord != "dog" {
		t.Fatalf("expected current word dog, got %q", stats.CurrentWord)
	}
}

func TestCharacterCapAtWordLength(t *testing.T) {
	s := newTestSession(t, "hi")
	typeString(t, s, "hi")

	res := s.ProcessKeystroke('x', false)
	if res.Accepted || !res.Error {
		t.Fatalf("overflow character should be rejected, got %+v", res)
	}
	if s.totalKeystrokes != 2 {
		t.Fatalf("rejected character changed counters: total=%d", s.totalKeystrokes)
	}
	if got := s.CurrentStats().CurrentWordInput; got != "hi" {
		t.Fatalf("rejected character changed buffer: %q", got)
	}
}

func TestMismatchIsAcceptedAndCounted(t *testing.T) {
	s := newTestSession(t, "dog")
	res := s.ProcessKeystroke('x', false)
	if !res.Accepted || !res.Error {
		t.Fatalf("mismatch should be accepted with error flag, got %+v", res)
	}
	if s.incorrectKeystrokes != 1 || s.keyErrors['d'] != 1 {
		t.Fatalf("mismatch not tracked: incorrect=%d keyErrors=%v", s.incorrectKeystrokes, s.keyErrors)
	}
	if got := s.CurrentStats().CurrentWordInput; got != "x" {
		t.Fatalf("mismatch should still be buffered, got %q", got)
	}
}

func TestBackspaceNeverRejectedNeverCounted(t *testing.T) {
	s := newTestSession(t, "cat dog")

	res := s.ProcessKeystroke(0, true)
	if !res.Accepted || res.Error {
		t.Fatalf("backspace on empty buffer should be an accepted no-op, got %+v", res)
	}

	typeString(t, s, "cat")
	s.ProcessKeystroke(' ', false)
	before := s.totalKeystrokes

	// Backspace cannot cross the word boundary backward.
	res = s.ProcessKeystroke(0, true)
	if !res.Accepted {
		t.Fatalf("backspace should always be accepted")
	}
	if s.totalKeystrokes != before {
		t.Fatalf("backspace changed counters: %d -> %d", before, s.totalKeystrokes)
	}
	if got := s.CurrentStats(); got.WordsCompleted != 1 || got.CurrentWordInput != "" {
		t.Fatalf("backspace un-completed a word: %+v", got)
	}

	typeString(t, s, "do")
	s.ProcessKeystroke(0, true)
	if got := s.CurrentStats().CurrentWordInput; got != "d" {
		t.Fatalf("backspace should drop last character, got %q", got)
	}
}

func TestCompletionAndPostCompletionRejection(t *testing.T) {
	s := newTestSession(t, "ok")
	if s.Complete() {
		t.Fatalf("session should not start complete")
	}
	typeString(t, s, "ok")
	s.ProcessKeystroke(' ', false)
	if !s.Complete() {
		t.Fatalf("session should be complete after final word")
	}
	total := s.totalKeystrokes
	res := s.ProcessKeystroke('x', false)
	if res.Accepted {
		t.Fatalf("keystroke after completion should be rejected")
	}
	if s.totalKeystrokes != total {
		t.Fatalf("post-completion keystroke changed counters")
	}
}

func TestKeystrokeAfterFinishIsNoOp(t *testing.T) {
	s := newTestSession(t, "cat")
	s.Start()
	typeString(t, s, "c")
	s.Finish()
	total := s.totalKeystrokes
	if res := s.ProcessKeystroke('a', false); res.Accepted {
		t.Fatalf("keystroke after finish should be rejected")
	}
	if s.totalKeystrokes != total {
		t.Fatalf("keystroke after finish changed counters")
	}
}

func TestCatDogScenario(t *testing.T) {
	s := newTestSession(t, "cat dog")

	typeString(t, s, "cat")
	s.ProcessKeystroke(' ', false)
	stats := s.CurrentStats()
	if stats.WordsCompleted != 1 || stats.CurrentWordInput != "" {
		t.Fatalf("unexpected state after first word: %+v", stats)
	}

	typeString(t, s, "dx")
	if s.incorrectKeystrokes != 1 || s.keyErrors['o'] != 1 {
		t.Fatalf("expected one miss on 'o': incorrect=%d keyErrors=%v", s.incorrectKeystrokes, s.keyErrors)
	}
	s.ProcessKeystroke(0, true)
	if got := s.CurrentStats().CurrentWordInput; got != "d" {
		t.Fatalf("expected buffer d after backspace, got %q", got)
	}
	typeString(t, s, "og")
	s.ProcessKeystroke(' ', false)

	if !s.Complete() {
		t.Fatalf("expected complete session")
	}
	if s.totalKeystrokes != 9 || s.correctKeystrokes != 8 || s.incorrectKeystrokes != 1 {
		t.Fatalf("unexpected counters: total=%d correct=%d incorrect=%d",
			s.totalKeystrokes, s.correctKeystrokes, s.incorrectKeystrokes)
	}
	if acc := s.Accuracy(); acc != 88.9 {
		t.Fatalf("expected accuracy 88.9, got %v", acc)
	}
	if typed := s.TypedText(); typed != "cat dog " {
		t.Fatalf("unexpected typed text %q", typed)
	}
}

func TestWPM(t *testing.T) {
	s := newTestSession(t, "hello")
	typeString(t, s, "hello")

	if got := s.WPM(0); got != 0 {
		t.Fatalf("WPM with zero elapsed should be 0, got %v", got)
	}
	if got := s.WPM(-1); got != 0 {
		t.Fatalf("WPM with negative elapsed should be 0, got %v", got)
	}
	// 5 correct keystrokes = 1 word; 30 seconds = half a minute.
	if got := s.WPM(30); got != 2.0 {
		t.Fatalf("expected 2.0 WPM, got %v", got)
	}
}

func TestAccuracyWithoutKeystrokes(t *testing.T) {
	s := newTestSession(t, "cat")
	if got := s.Accuracy(); got != 100.0 {
		t.Fatalf("expected 100.0 accuracy, got %v", got)
	}
}

func TestDurationAndScores(t *testing.T) {
	s := newTestSession(t, "hello world")
	base := time.Unix(1000, 0)
	current := base
	s.now = func() time.Time { return current }

	if s.Duration() != 0 {
		t.Fatalf("duration before start should be 0")
	}
	s.Start()
	typeString(t, s, "hello")
	s.ProcessKeystroke(' ', false)
	typeString(t, s, "worx")
	s.ProcessKeystroke(0, true)
	typeString(t, s, "ld")
	s.ProcessKeystroke(' ', false)

	current = base.Add(30 * time.Second)
	s.Finish()

	result := s.Scores()
	if result.Duration != 30.0 {
		t.Fatalf("expected duration 30.0, got %v", result.Duration)
	}
	// 12 correct keystrokes over 30s: (12/5)/(0.5) = 4.8 WPM.
	if result.WPM != 4.8 {
		t.Fatalf("expected 4.8 WPM, got %v", result.WPM)
	}
	if result.SpeedScore != 5 {
		t.Fatalf("expected speed score 5, got %d", result.SpeedScore)
	}
	// 12 correct of 13 total = 92.3%.
	if result.Accuracy != 92.3 {
		t.Fatalf("expected accuracy 92.3, got %v", result.Accuracy)
	}
	if result.AccuracyScore != 92 {
		t.Fatalf("expected accuracy score 92, got %d", result.AccuracyScore)
	}
	if result.OverallScore != 49 {
		t.Fatalf("expected overall score 49, got %d", result.OverallScore)
	}
	if result.TotalKeystrokes != 13 || result.CorrectKeystrokes != 12 || result.IncorrectKeystrokes != 1 {
		t.Fatalf("unexpected counters in result: %+v", result)
	}
	if len(result.TopMissedKeys) != 1 || result.TopMissedKeys[0].Key != 'x' {
		t.Fatalf("unexpected missed keys: %+v", result.TopMissedKeys)
	}
}

func TestSpeedScoreCap(t *testing.T) {
	s := newTestSession(t, "abcdefghij")
	base := time.Unix(0, 0)
	current := base
	s.now = func() time.Time { return current }
	s.Start()
	typeString(t, s, "abcdefghij")
	s.ProcessKeystroke(' ', false)
	current = base.Add(time.Second)
	s.Finish()

	result := s.Scores()
	if result.SpeedScore != 100 {
		t.Fatalf("expected capped speed score 100, got %d", result.SpeedScore)
	}
}

func TestTopMissedKeysOrdering(t *testing.T) {
	s := newTestSession(t, "x")
	s.keyErrors = map[rune]int{'e': 3, 'a': 5, 't': 1, 'o': 2}
	s.keyOrder = []rune{'e', 'a', 't', 'o'}

	top := s.TopMissedKeys(3)
	want := []KeyMiss{{'a', 5}, {'e', 3}, {'o', 2}}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], top[i])
		}
	}
}

func TestTopMissedKeysTiesKeepFirstMissOrder(t *testing.T) {
	s := newTestSession(t, "abab abab")
	typeString(t, s, "x")
	s.ProcessKeystroke(0, true)
	typeString(t, s, "ax")
	s.ProcessKeystroke(0, true)
	// 'a' and 'b' both missed once; 'a' was missed first.
	top := s.TopMissedKeys(3)
	if len(top) != 2 || top[0].Key != 'a' || top[1].Key != 'b' {
		t.Fatalf("unexpected tie order: %+v", top)
	}
}

func TestCurrentStatsBeforeStart(t *testing.T) {
	s := newTestSession(t, "cat dog")
	stats := s.CurrentStats()
	if stats.ElapsedSeconds != 0 || stats.WPM != 0 {
		t.Fatalf("expected zeroed time stats, got %+v", stats)
	}
	if stats.Accuracy != 100.0 {
		t.Fatalf("expected default accuracy 100, got %v", stats.Accuracy)
	}
	if stats.CurrentWord != "cat" || stats.TotalWords != 2 {
		t.Fatalf("expected word progress fields populated, got %+v", stats)
	}
}

func TestCurrentStatsIdempotentBetweenKeystrokes(t *testing.T) {
	s := newTestSession(t, "cat")
	fixed := time.Unix(500, 0)
	s.now = func() time.Time { return fixed }
	s.Start()
	typeString(t, s, "ca")

	first := s.CurrentStats()
	second := s.CurrentStats()
	if first != second {
		t.Fatalf("stats changed without keystrokes: %+v vs %+v", first, second)
	}
	if first.WordsCompleted != 0 || first.CurrentWordInput != "ca" || first.Errors != 0 {
		t.Fatalf("unexpected live stats: %+v", first)
	}
}

func TestStartTwiceResetsTimer(t *testing.T) {
	s := newTestSession(t, "cat")
	base := time.Unix(0, 0)
	current := base
	s.now = func() time.Time { return current }

	s.Start()
	current = base.Add(time.Minute)
	s.Start()
	current = base.Add(90 * time.Second)
	s.Finish()
	if got := s.Duration(); got != 30 {
		t.Fatalf("expected duration 30 after restart, got %v", got)
	}
}

func TestUnicodeReferenceWords(t *testing.T) {
	s := newTestSession(t, "بسم الله")
	for _, r := range "بسم" {
		if res := s.ProcessKeystroke(r, false); !res.Accepted || res.Error {
			t.Fatalf("expected correct keystroke for %q, got %+v", r, res)
		}
	}
	if res := s.ProcessKeystroke(' ', false); !res.Accepted {
		t.Fatalf("expected space accepted after matching Arabic word")
	}
	if got := s.CurrentStats().CurrentWord; got != "الله" {
		t.Fatalf("expected next Arabic word, got %q", got)
	}
}
