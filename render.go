package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lumehl/internal/classifier"
	"lumehl/internal/grammar"
)

// renderANSI renders classified source for the terminal. Spans may cross
// line boundaries (block comments, multiline strings); the gutter prefix is
// re-emitted after every newline inside a span.
func renderANSI(source string, spans []classifier.Span, lineNumbers bool) string {
	if source == "" {
		return ""
	}

	flat := classifier.Flatten(spans)
	gutterWidth := len(strconv.Itoa(strings.Count(source, "\n") + 1))
	gutterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.Gutter))

	var b strings.Builder
	line := 1
	if lineNumbers {
		b.WriteString(gutterStyle.Render(gutterPrefix(line, gutterWidth)))
	}

	for _, span := range flat {
		style := spanStyle(span.Kind, false)
		text := span.Text(source)
		pos := span.Start
		for {
			idx := strings.IndexByte(text, '\n')
			if idx < 0 {
				if text != "" {
					b.WriteString(style.Render(text))
				}
				break
			}
			if idx > 0 {
				b.WriteString(style.Render(text[:idx]))
			}
			b.WriteByte('\n')
			line++
			pos += idx + 1
			text = text[idx+1:]
			if lineNumbers && pos < len(source) {
				b.WriteString(gutterStyle.Render(gutterPrefix(line, gutterWidth)))
			}
		}
	}

	return b.String()
}

func gutterPrefix(line int, width int) string {
	return fmt.Sprintf("%*d ", width, line)
}

func spanStyle(kind grammar.Kind, selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(appTheme.colorFor(kind)))
	if selected {
		style = style.Background(lipgloss.Color(appTheme.SelectionBG))
	}
	switch grammar.Alias(kind) {
	case grammar.KindOperator, grammar.KindPunctuation:
		return style.Faint(true)
	case grammar.KindDocComment:
		return style.Italic(true)
	default:
		return style
	}
}
