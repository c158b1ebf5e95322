package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"lumehl/internal/grammar"
)

type ThemePalette struct {
	Name        string
	Text        string
	Gutter      string
	SelectionBG string
	Muted       string
	Header      string
	Error       string

	Comment     string
	DocComment  string
	Directive   string
	Keyword     string
	Type        string
	Function    string
	Identifier  string
	String      string
	Number      string
	Boolean     string
	Constant    string
	Builtin     string
	Operator    string
	Punctuation string
}

var appTheme = mustDefaultTheme()

func SetTheme(name string) error {
	palette, err := LoadThemePalette(name)
	if err != nil {
		return err
	}
	appTheme = palette
	return nil
}

// colorFor resolves a grammar kind (through its render alias) to the palette
// color the terminal renderer uses.
func (p ThemePalette) colorFor(kind grammar.Kind) string {
	switch grammar.Alias(kind) {
	case grammar.KindComment:
		return p.Comment
	case grammar.KindDocComment:
		return p.DocComment
	case grammar.KindDirective:
		return p.Directive
	case grammar.KindKeyword:
		return p.Keyword
	case grammar.KindType:
		return p.Type
	case grammar.KindFunction:
		return p.Function
	case grammar.KindIdentifier:
		return p.Identifier
	case grammar.KindString, grammar.KindMultiString:
		return p.String
	case grammar.KindNumber:
		return p.Number
	case grammar.KindBoolean:
		return p.Boolean
	case grammar.KindConstant:
		return p.Constant
	case grammar.KindBuiltin:
		return p.Builtin
	case grammar.KindOperator:
		return p.Operator
	case grammar.KindPunctuation:
		return p.Punctuation
	default:
		return p.Text
	}
}

func LoadThemePalette(name string) (ThemePalette, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = "nord"
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	available := make(map[string]struct{}, len(names))
	for _, n := range names {
		available[n] = struct{}{}
	}
	unknownThemeErr := func() error {
		sort.Strings(names)
		return fmt.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(topThemeHints(names), ", "))
	}
	if _, ok := available[lookup]; !ok {
		return ThemePalette{}, unknownThemeErr()
	}

	style := styles.Get(lookup)
	if style == nil {
		return ThemePalette{}, unknownThemeErr()
	}

	baseBG := pickBackground(style, "#2E3440", chroma.Background, chroma.LineHighlight)
	baseFG := pickForeground(style, "#D8DEE9", chroma.Text, chroma.Background)
	comment := pickForeground(style, adjustTone(baseFG, -60), chroma.Comment)
	keyword := pickForeground(style, baseFG, chroma.Keyword)

	palette := ThemePalette{
		Name:        lookup,
		Text:        baseFG,
		Gutter:      pickForeground(style, adjustTone(baseFG, -48), chroma.LineNumbers, chroma.Comment),
		SelectionBG: pickBackground(style, autoSelection(baseBG), chroma.LineHighlight),
		Muted:       pickForeground(style, adjustTone(baseFG, -40), chroma.Comment, chroma.Text),
		Header:      pickForeground(style, adjustTone(baseFG, -20), chroma.NameClass, chroma.Keyword),
		Error:       pickForeground(style, "#BF616A", chroma.Error),

		Comment:     comment,
		DocComment:  pickForeground(style, adjustTone(comment, 20), chroma.CommentSpecial, chroma.Comment),
		Directive:   pickForeground(style, keyword, chroma.CommentPreproc, chroma.Keyword),
		Keyword:     keyword,
		Type:        pickForeground(style, keyword, chroma.KeywordType, chroma.NameClass),
		Function:    pickForeground(style, baseFG, chroma.NameFunction, chroma.Name),
		Identifier:  pickForeground(style, baseFG, chroma.Name, chroma.Text),
		String:      pickForeground(style, baseFG, chroma.LiteralString),
		Number:      pickForeground(style, baseFG, chroma.LiteralNumber),
		Boolean:     pickForeground(style, baseFG, chroma.KeywordConstant, chroma.LiteralNumber),
		Constant:    pickForeground(style, baseFG, chroma.NameConstant, chroma.LiteralNumber),
		Builtin:     pickForeground(style, baseFG, chroma.NameBuiltin, chroma.NameNamespace, chroma.Name),
		Operator:    pickForeground(style, baseFG, chroma.Operator),
		Punctuation: pickForeground(style, baseFG, chroma.Punctuation, chroma.Operator),
	}

	return palette, nil
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Background.IsSet() {
			return entry.Background.String()
		}
	}
	return fallback
}

func topThemeHints(all []string) []string {
	wanted := []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		limit := min(8, len(all))
		return all[:limit]
	}
	return out
}

func autoSelection(bg string) string {
	return adjustTone(bg, autoDelta(bg, 18, -18))
}

func autoDelta(bg string, darkDelta int, lightDelta int) int {
	r, g, b, ok := parseHexRGB(bg)
	if !ok {
		return darkDelta
	}
	l := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if l < 128 {
		return darkDelta
	}
	return lightDelta
}

func adjustTone(hex string, delta int) string {
	r, g, b, ok := parseHexRGB(hex)
	if !ok {
		return hex
	}
	r = clamp8(r + delta)
	g = clamp8(g + delta)
	b = clamp8(b + delta)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func parseHexRGB(hex string) (int, int, int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	r := int((v >> 16) & 0xFF)
	g := int((v >> 8) & 0xFF)
	b := int(v & 0xFF)
	return r, g, b, true
}

func clamp8(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func mustDefaultTheme() ThemePalette {
	p, err := LoadThemePalette("nord")
	if err == nil {
		return p
	}
	return ThemePalette{
		Name:        "fallback",
		Text:        "#D8DEE9",
		Gutter:      "#4C566A",
		SelectionBG: "#434C5E",
		Muted:       "#6B7280",
		Header:      "#8FBCBB",
		Error:       "#BF616A",
		Comment:     "#4C566A",
		DocComment:  "#616E88",
		Directive:   "#5E81AC",
		Keyword:     "#81A1C1",
		Type:        "#8FBCBB",
		Function:    "#88C0D0",
		Identifier:  "#D8DEE9",
		String:      "#A3BE8C",
		Number:      "#B48EAD",
		Boolean:     "#B48EAD",
		Constant:    "#EBCB8B",
		Builtin:     "#8FBCBB",
		Operator:    "#D8DEE9",
		Punctuation: "#D8DEE9",
	}
}
