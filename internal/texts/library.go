package texts

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Library serves built-in texts plus user-added custom texts stored as
// line-per-text files under dir.
type Library struct {
	dir string
}

// NewLibrary builds a library rooted at the given custom-text directory.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// List returns built-in and custom texts for a language and difficulty.
// An empty difficulty returns all levels.
func (l *Library) List(lang, difficulty string) ([]Text, error) {
	levels := []string{difficulty}
	if difficulty == "" {
		levels = Difficulties()
	}
	var out []Text
	for _, level := range levels {
		out = append(out, Builtin(lang, level)...)
		custom, err := l.loadCustom(lang, level)
		if err != nil {
			return nil, err
		}
		out = append(out, custom...)
	}
	return out, nil
}

// Add appends a custom text for a language and difficulty.
func (l *Library) Add(lang, difficulty, text string) (Text, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Text{}, fmt.Errorf("text must not be empty")
	}
	if strings.ContainsAny(text, "\n\r") {
		return Text{}, fmt.Errorf("text must be a single line")
	}
	existing, err := l.loadCustom(lang, difficulty)
	if err != nil {
		return Text{}, err
	}
	path := l.customPath(lang, difficulty)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Text{}, fmt.Errorf("failed to create texts dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Text{}, fmt.Errorf("failed to open texts file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close after append.
			_ = cerr
		}
	}()
	if _, err := fmt.Fprintln(file, text); err != nil {
		return Text{}, fmt.Errorf("failed to write text: %w", err)
	}
	return Text{
		ID:         customID(lang, len(existing)),
		Text:       text,
		Difficulty: difficulty,
		Custom:     true,
	}, nil
}

// Remove deletes the custom text with the given ID. Built-in texts cannot
// be removed.
func (l *Library) Remove(lang, difficulty, id string) error {
	custom, err := l.loadCustom(lang, difficulty)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(custom))
	found := false
	for _, t := range custom {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t.Text)
	}
	if !found {
		return fmt.Errorf("custom text %q not found", id)
	}
	return l.writeCustom(lang, difficulty, kept)
}

func (l *Library) customPath(lang, difficulty string) string {
	return filepath.Join(l.dir, lang+"-"+difficulty+".txt")
}

func (l *Library) loadCustom(lang, difficulty string) ([]Text, error) {
	file, err := os.Open(l.customPath(lang, difficulty))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open texts file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only texts file.
			_ = cerr
		}
	}()

	var out []Text
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, Text{
			ID:         customID(lang, len(out)),
			Text:       line,
			Difficulty: difficulty,
			Custom:     true,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read texts file: %w", err)
	}
	return out, nil
}

func (l *Library) writeCustom(lang, difficulty string, lines []string) error {
	path := l.customPath(lang, difficulty)
	if len(lines) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove texts file: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create texts dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "texts-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp texts file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("failed to write texts file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush texts file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close texts file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace texts file: %w", err)
	}
	return nil
}

func customID(lang string, index int) string {
	return fmt.Sprintf("%s_custom_%d", langPrefix(lang), index)
}
