// Package chromalex adapts the Lumen classifier to chroma's lexer interface
// so hosts that already render through chroma pick it up by language tag.
// Registration is explicit: nothing happens at import time.
package chromalex

import (
	"fmt"
	"io"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"lumehl/internal/classifier"
	"lumehl/internal/grammar"
)

var kindToChroma = map[grammar.Kind]chroma.TokenType{
	grammar.KindPlain:       chroma.Text,
	grammar.KindComment:     chroma.Comment,
	grammar.KindDocComment:  chroma.CommentSpecial,
	grammar.KindString:      chroma.LiteralString,
	grammar.KindMultiString: chroma.LiteralStringHeredoc,
	grammar.KindDirective:   chroma.CommentPreproc,
	grammar.KindKeyword:     chroma.Keyword,
	grammar.KindType:        chroma.KeywordType,
	grammar.KindFunction:    chroma.NameFunction,
	grammar.KindIdentifier:  chroma.Name,
	grammar.KindNumber:      chroma.LiteralNumber,
	grammar.KindBoolean:     chroma.KeywordConstant,
	grammar.KindConstant:    chroma.NameConstant,
	grammar.KindBuiltin:     chroma.NameBuiltin,
	grammar.KindOperator:    chroma.Operator,
	grammar.KindPunctuation: chroma.Punctuation,
}

// TokenType resolves a grammar kind (through its render alias) to the chroma
// token type the host styles it with.
func TokenType(kind grammar.Kind) chroma.TokenType {
	if tt, ok := kindToChroma[grammar.Alias(kind)]; ok {
		return tt
	}
	return chroma.Text
}

// Lexer wraps the classifier as a chroma.Lexer. The zero value is not usable;
// call New.
type Lexer struct {
	config   chroma.Config
	registry *chroma.LexerRegistry
	analyser func(text string) float32
}

func New() *Lexer {
	return &Lexer{
		config: chroma.Config{
			Name:      "Lumen",
			Aliases:   []string{"lumen", "lum"},
			Filenames: []string{"*.lum", "*.lumen"},
			MimeTypes: []string{"text/x-lumen"},
		},
	}
}

// Register registers a fresh Lumen lexer with chroma's global registry and
// returns it. Hosts call this once at startup.
func Register() *Lexer {
	l := New()
	lexers.Register(l)
	return l
}

func (l *Lexer) Config() *chroma.Config {
	return &l.config
}

func (l *Lexer) Tokenise(options *chroma.TokeniseOptions, text string) (chroma.Iterator, error) {
	spans := classifier.Flatten(classifier.Classify(text))
	tokens := make([]chroma.Token, 0, len(spans))
	for _, span := range spans {
		tokens = append(tokens, chroma.Token{
			Type:  TokenType(span.Kind),
			Value: span.Text(text),
		})
	}
	return chroma.Literator(tokens...), nil
}

func (l *Lexer) SetRegistry(registry *chroma.LexerRegistry) chroma.Lexer {
	l.registry = registry
	return l
}

func (l *Lexer) SetAnalyser(analyser func(text string) float32) chroma.Lexer {
	l.analyser = analyser
	return l
}

func (l *Lexer) AnalyseText(text string) float32 {
	if l.analyser != nil {
		return l.analyser(text)
	}
	return 0
}

// lookupStyle resolves a theme name strictly; chroma's styles.Get would
// silently fall back for unknown names.
func lookupStyle(theme string) (*chroma.Style, error) {
	for _, name := range styles.Names() {
		if name == theme {
			return styles.Get(theme), nil
		}
	}
	return nil, fmt.Errorf("unknown style %q", theme)
}

// WriteHTML renders source as a styled HTML code block using chroma's HTML
// formatter with CSS classes.
func WriteHTML(w io.Writer, source string, theme string) error {
	style, err := lookupStyle(theme)
	if err != nil {
		return err
	}

	it, err := New().Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenise: %w", err)
	}

	formatter := html.New(html.WithClasses(true))
	if err := formatter.Format(w, style, it); err != nil {
		return fmt.Errorf("format html: %w", err)
	}
	return nil
}

// WriteCSS emits the stylesheet for the classes WriteHTML references.
func WriteCSS(w io.Writer, theme string) error {
	style, err := lookupStyle(theme)
	if err != nil {
		return err
	}

	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(w, style); err != nil {
		return fmt.Errorf("write css: %w", err)
	}
	return nil
}
