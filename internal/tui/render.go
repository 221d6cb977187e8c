// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cell is one reference character with its style applied.
type cell struct {
	s       string
	width   int
	isSpace bool
}

// styledCells colors each reference character against the typed text.
// Typed characters are correct or incorrect, the untyped remainder of the
// current word is highlighted, the next expected character is underlined,
// and everything else is pending. The reference is normalized the same way
// the session splits it, so typed offsets line up one to one.
func styledCells(reference, typed string, currentWordIndex int) []cell {
	target := []rune(strings.Join(strings.Fields(reference), " "))
	input := []rune(typed)
	current := wordRangeAt(target, currentWordIndex)
	cursor := -1
	if len(input) < len(target) {
		cursor = len(input)
	}

	out := make([]cell, 0, len(target))
	for i, r := range target {
		style := pendingStyle
		switch {
		case i < len(input) && input[i] == r:
			style = correctStyle
		case i < len(input):
			style = incorrectStyle
		case r != ' ' && i >= current.start && i < current.end:
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

// wordRangeAt returns the rune range of the index-th word in target, or an
// empty range past the end when the index is out of bounds.
func wordRangeAt(target []rune, index int) wordRange {
	word := 0
	start := -1
	for i, r := range target {
		if r == ' ' {
			if start != -1 {
				if word == index {
					return wordRange{start: start, end: i}
				}
				word++
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 && word == index {
		return wordRange{start: start, end: len(target)}
	}
	return wordRange{start: len(target), end: len(target)}
}

// renderText renders the styled reference as a single unwrapped line.
func renderText(reference, typed string, currentWordIndex int) string {
	return renderCells(styledCells(reference, typed, currentWordIndex))
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells word-wraps styled cells to the given display width, breaking at
// the last space on the line when possible.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return renderCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(renderCells(line[:lastSpace]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth = 0
			lastSpace = -1
			for j, lc := range line {
				lineWidth += lc.width
				if lc.isSpace {
					lastSpace = j
				}
			}
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderCells(line))
	return out.String()
}
