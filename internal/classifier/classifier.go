// Package classifier turns Lumen source text into a covering sequence of
// tagged spans using the grammar rule table.
package classifier

import (
	"strings"

	"lumehl/internal/grammar"
)

// Span is one classified region of the input. Offsets are byte positions,
// End exclusive. Nested holds doc-tag spans found inside comment spans; their
// offsets are absolute, contained in [Start, End).
type Span struct {
	Start  int
	End    int
	Kind   grammar.Kind
	Nested []Span
}

// Text returns the literal source text the span covers.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Classify scans src with the grammar table and returns spans that cover the
// whole input in strictly increasing order with no gaps or overlaps. It never
// fails: unmatched bytes become plain spans, unterminated constructs extend
// to end of input. Pure function; safe to call from any number of goroutines.
func Classify(src string) []Span {
	if src == "" {
		return nil
	}

	rules := grammar.Rules()
	spans := make([]Span, 0, 16)
	pos := 0

	for pos < len(src) {
		span, ok := matchAt(rules, src, pos)
		if !ok {
			span = Span{Start: pos, End: pos + 1, Kind: grammar.KindPlain}
		}
		spans = appendSpan(spans, span)
		pos = span.End
	}

	for i := range spans {
		refineComment(src, &spans[i])
	}

	return spans
}

func matchAt(rules []grammar.Rule, src string, pos int) (Span, bool) {
	rest := src[pos:]
	for _, rule := range rules {
		if rule.AtLineStart && pos > 0 && src[pos-1] != '\n' {
			continue
		}

		if rule.Group > 0 {
			loc := rule.Pattern.FindStringSubmatchIndex(rest)
			if loc == nil || loc[2*rule.Group] != 0 {
				continue
			}
			end := loc[2*rule.Group+1]
			if end == 0 {
				continue
			}
			return Span{Start: pos, End: pos + end, Kind: rule.Kind}, true
		}

		loc := rule.Pattern.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		return Span{Start: pos, End: pos + loc[1], Kind: rule.Kind}, true
	}
	return Span{}, false
}

// appendSpan merges runs of plain spans so unmatched bytes collapse into one
// span instead of one span per byte.
func appendSpan(spans []Span, span Span) []Span {
	if len(spans) > 0 {
		last := &spans[len(spans)-1]
		if last.Kind == grammar.KindPlain && span.Kind == grammar.KindPlain && last.End == span.Start {
			last.End = span.End
			return spans
		}
	}
	return append(spans, span)
}

func isCommentKind(k grammar.Kind) bool {
	return k == grammar.KindComment || k == grammar.KindDocComment
}

// refineComment applies the two comment refinements: a comment whose text
// starts with the doc marker becomes a doc-comment, and the interior of any
// comment-family span is scanned for @tag markers, which become nested spans.
func refineComment(src string, span *Span) {
	if !isCommentKind(span.Kind) {
		return
	}

	text := span.Text(src)
	if strings.HasPrefix(text, grammar.DocCommentPrefix) {
		span.Kind = grammar.KindDocComment
	}

	for _, loc := range grammar.DocTagPattern.FindAllStringIndex(text, -1) {
		span.Nested = append(span.Nested, Span{
			Start: span.Start + loc[0],
			End:   span.Start + loc[1],
			Kind:  grammar.KindDocTag,
		})
	}
}

// Flatten projects nested doc-tag spans into the top-level sequence,
// splitting their enclosing comment spans so the result is still a covering,
// non-overlapping sequence. Renderers that cannot nest use this form.
func Flatten(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		if len(span.Nested) == 0 {
			out = append(out, span)
			continue
		}

		cursor := span.Start
		for _, tag := range span.Nested {
			if tag.Start > cursor {
				out = append(out, Span{Start: cursor, End: tag.Start, Kind: span.Kind})
			}
			out = append(out, Span{Start: tag.Start, End: tag.End, Kind: tag.Kind})
			cursor = tag.End
		}
		if cursor < span.End {
			out = append(out, Span{Start: cursor, End: span.End, Kind: span.Kind})
		}
	}
	return out
}

// Concat rebuilds the input from a span sequence. Classify guarantees
// Concat(src, Classify(src)) == src; tests and hosts use it as the
// round-trip check.
func Concat(src string, spans []Span) string {
	var b strings.Builder
	b.Grow(len(src))
	for _, span := range spans {
		b.WriteString(span.Text(src))
	}
	return b.String()
}
