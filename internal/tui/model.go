// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ahmed-okal1/typing/internal/model"
	"github.com/ahmed-okal1/typing/internal/session"
	statsPkg "github.com/ahmed-okal1/typing/internal/stats"
	"github.com/ahmed-okal1/typing/internal/store"
	"github.com/ahmed-okal1/typing/internal/texts"
)

const (
	phaseTyping = iota
	phaseResults
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	resultTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	resultCardStyle  = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	store   *store.Store
	library *texts.Library
	picker  *texts.Picker

	width  int
	height int

	phase   int
	text    texts.Text
	sess    *session.Session
	result  session.Result
	saveErr string
	notice  string

	allWPM      float64
	allAccuracy float64
	allTests    int
}

// NewModel constructs a typing TUI model with an initial text already picked.
func NewModel(cfg model.Config, st *store.Store, library *texts.Library, picker *texts.Picker, first texts.Text) (*Model, error) {
	sess, err := session.New(first.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	m := &Model{
		config:  cfg,
		store:   st,
		library: library,
		picker:  picker,
		text:    first,
		sess:    sess,
	}
	m.loadHistory()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.phase == phaseResults {
			return m.updateResults(msg)
		}
		return m.updateTyping(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.ProcessKeystroke(0, true)
		m.notice = ""
		return m, nil
	case tea.KeySpace:
		m.feedKeystroke(' ')
		return m, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.feedKeystroke(r)
			if m.phase == phaseResults {
				break
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeySpace, msg.Type == tea.KeyEnter:
		if err := m.nextTest(); err != nil {
			m.saveErr = err.Error()
		}
		return m, nil
	case msg.Type == tea.KeyEsc, msg.String() == "q":
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) feedKeystroke(r rune) {
	if !m.sess.Started() {
		m.sess.Start()
	}
	res := m.sess.ProcessKeystroke(r, false)
	if !res.Accepted {
		if r == ' ' {
			m.notice = "finish the word before pressing space"
		}
		return
	}
	m.notice = ""
	if m.sess.Complete() {
		m.finishTest()
	}
}

func (m *Model) finishTest() {
	m.sess.Finish()
	m.result = m.sess.Scores()
	m.saveErr = ""
	m.phase = phaseResults

	record := model.ResultRecord{
		FinishedAt:          time.Now(),
		Lang:                m.config.Lang,
		Difficulty:          m.text.Difficulty,
		TextID:              m.text.ID,
		WPM:                 m.result.WPM,
		Accuracy:            m.result.Accuracy,
		SpeedScore:          m.result.SpeedScore,
		AccuracyScore:       m.result.AccuracyScore,
		OverallScore:        m.result.OverallScore,
		DurationMs:          int64(m.result.Duration * 1000),
		TotalKeystrokes:     m.result.TotalKeystrokes,
		CorrectKeystrokes:   m.result.CorrectKeystrokes,
		IncorrectKeystrokes: m.result.IncorrectKeystrokes,
	}
	ctx := context.Background()
	if _, err := m.store.SaveResult(ctx, record, m.result.TopMissedKeys); err != nil {
		m.saveErr = fmt.Sprintf("failed to save result: %v", err)
		logErrf("failed to save result: %v\n", err)
	}
	m.loadHistory()
}

func (m *Model) nextTest() error {
	candidates, err := m.library.List(m.config.Lang, m.config.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to load texts: %w", err)
	}
	next, err := m.picker.Pick(candidates)
	if err != nil {
		return fmt.Errorf("failed to pick text: %w", err)
	}
	sess, err := session.New(next.Text)
	if err != nil {
		return fmt.Errorf("failed to build session: %w", err)
	}
	m.text = next
	m.sess = sess
	m.phase = phaseTyping
	m.notice = ""
	m.saveErr = ""
	return nil
}

func (m *Model) loadHistory() {
	ctx := context.Background()
	results, err := m.store.ListResults(ctx, model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		logErrf("failed to load result history: %v\n", err)
		return
	}
	summary := statsPkg.Summarize(results)
	m.allWPM = summary.AverageWPM
	m.allAccuracy = summary.AverageAccuracy
	m.allTests = summary.TotalTests
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseResults {
		return m.viewResults()
	}
	return m.viewTyping()
}

func (m *Model) viewTyping() string {
	stats := m.sess.CurrentStats()
	rendered := renderText(m.text.Text, m.sess.TypedText(), stats.WordsCompleted)
	if m.width == 0 || m.height == 0 {
		return rendered
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapCells(styledCells(m.text.Text, m.sess.TypedText(), stats.WordsCompleted), contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter(stats)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter(stats session.LiveStats) string {
	segments := []string{
		fmt.Sprintf("Words %d/%d", stats.WordsCompleted, stats.TotalWords),
		fmt.Sprintf("WPM %.1f", stats.WPM),
		fmt.Sprintf("Acc %.1f%%", stats.Accuracy),
		fmt.Sprintf("Errors %d", stats.Errors),
	}
	if m.allTests > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAccuracy))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.notice != "" {
		footer += "  " + errorStyle.Render(m.notice)
	}
	return footer
}

func (m *Model) viewResults() string {
	card := resultCardStyle.Render(m.renderResultCard())
	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m *Model) renderResultCard() string {
	lines := []string{
		resultTitleStyle.Render("Test Complete"),
		"",
		fmt.Sprintf("WPM        %.1f", m.result.WPM),
		fmt.Sprintf("Accuracy   %.1f%%", m.result.Accuracy),
		fmt.Sprintf("Duration   %.1fs", m.result.Duration),
		fmt.Sprintf("Keystrokes %d (%d wrong)", m.result.TotalKeystrokes, m.result.IncorrectKeystrokes),
		"",
		fmt.Sprintf("Speed score    %d", m.result.SpeedScore),
		fmt.Sprintf("Accuracy score %d", m.result.AccuracyScore),
		fmt.Sprintf("Overall score  %d", m.result.OverallScore),
	}
	if len(m.result.TopMissedKeys) > 0 {
		parts := make([]string, 0, len(m.result.TopMissedKeys))
		for _, miss := range m.result.TopMissedKeys {
			parts = append(parts, fmt.Sprintf("%s (%d)", keyLabel(miss.Key), miss.Count))
		}
		lines = append(lines, "", "Missed keys: "+strings.Join(parts, ", "))
	}
	if m.saveErr != "" {
		lines = append(lines, "", errorStyle.Render(m.saveErr))
	}
	lines = append(lines, "", footerStyle.Render("space: next test  q: quit"))
	return strings.Join(lines, "\n")
}

func keyLabel(r rune) string {
	if r == ' ' {
		return "<space>"
	}
	return string(r)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
