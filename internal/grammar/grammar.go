// Package grammar defines the Lumen token grammar as one ordered rule table.
// The table is the single source of truth: the classifier scans with it and
// the chroma adapter derives its registration from it.
package grammar

import (
	"regexp"
	"sort"
	"strings"
)

// Kind labels a classified span. The values double as renderer class names.
type Kind string

const (
	KindPlain       Kind = "plain"
	KindComment     Kind = "comment"
	KindDocComment  Kind = "doc-comment"
	KindDocTag      Kind = "doc-tag"
	KindString      Kind = "string"
	KindMultiString Kind = "multiline-string"
	KindDirective   Kind = "directive"
	KindKeyword     Kind = "keyword"
	KindType        Kind = "type"
	KindFunction    Kind = "function"
	KindIdentifier  Kind = "identifier"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindConstant    Kind = "constant"
	KindBuiltin     Kind = "builtin"
	KindOperator    Kind = "operator"
	KindPunctuation Kind = "punctuation"
)

// Alias maps a kind to the kind it renders as. Doc-tags borrow the keyword
// styling so @param reads like a reserved word inside a comment.
func Alias(k Kind) Kind {
	if k == KindDocTag {
		return KindKeyword
	}
	return k
}

// Rule is one entry of the priority-ordered table. Earlier rules win ties.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp

	// AtLineStart restricts the rule to offsets at the start of a line.
	AtLineStart bool

	// Group, when nonzero, emits only that capture group as the span. The
	// function-call rule uses it so the trailing "(" is left for the
	// punctuation rule.
	Group int
}

// Keywords is the reserved-word set: control flow, declaration and
// visibility words. Type names live in TypeKeywords.
var Keywords = []string{
	"break", "case", "catch", "class", "const", "continue", "default", "do",
	"else", "enum", "finally", "for", "foreach", "func", "if", "import",
	"in", "let", "new", "private", "public", "return", "static", "super",
	"switch", "this", "throw", "try", "var", "while",
}

// TypeKeywords are reserved words eligible for the distinct type styling.
// The type rule is declared before the generic keyword rule, so the more
// specific classification wins when a token is in both sets.
var TypeKeywords = []string{
	"any", "bool", "byte", "char", "double", "float", "int", "list", "map",
	"object", "string", "uint", "void",
}

// Booleans are the literal words rendered as value constants.
var Booleans = []string{"true", "false", "null"}

// Builtins are the top-level library namespaces of the Lumen cookbook,
// highlighted regardless of context.
var Builtins = []string{
	"console", "db", "fs", "http", "json", "math", "net", "os", "process",
	"regex", "std", "str", "sys", "time", "ui",
}

// Directives are the names accepted after a line-leading "#".
var Directives = []string{
	"pragma", "require", "if", "else", "elif", "endif", "define", "undef",
	"error", "warning",
}

// DocCommentPrefix marks a line comment as documentation.
const DocCommentPrefix = "//!"

// DocTagPattern matches @tag markers inside comment spans. It is not part of
// the top-level table; the classifier applies it only within comments.
var DocTagPattern = regexp.MustCompile(`@[A-Za-z]+`)

var rules = buildRules()

// Rules returns the fixed table in priority order. The slice is shared and
// must not be mutated.
func Rules() []Rule {
	return rules
}

func buildRules() []Rule {
	return []Rule{
		{Kind: KindDocComment, Pattern: anchored(`//![^\n]*`)},
		{Kind: KindComment, Pattern: anchored(`//[^\n]*`)},
		// Unterminated block comments run to end of input.
		{Kind: KindComment, Pattern: anchored(`/\*(?s:.*?)(?:\*/|\z)`)},
		{Kind: KindMultiString, Pattern: anchored(`#"(?s:\\.|[^"\\])*(?:"|\z)`)},
		{Kind: KindDirective, Pattern: anchored(`#[ \t]*(?:` + wordChoice(Directives) + `)\b[^\n]*`), AtLineStart: true},
		{Kind: KindString, Pattern: anchored(`"(?s:\\.|[^"\\])*(?:"|\z)`)},
		{Kind: KindString, Pattern: anchored(`'(?s:\\.|[^'\\])*(?:'|\z)`)},
		{Kind: KindNumber, Pattern: anchored(`0[xX][0-9a-fA-F]+|[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`)},
		{Kind: KindBoolean, Pattern: anchored(wordChoice(Booleans) + `\b`)},
		{Kind: KindType, Pattern: anchored(wordChoice(TypeKeywords) + `\b`)},
		{Kind: KindKeyword, Pattern: anchored(wordChoice(Keywords) + `\b`)},
		{Kind: KindBuiltin, Pattern: anchored(wordChoice(Builtins) + `\b`)},
		{Kind: KindConstant, Pattern: anchored(`[A-Z][A-Z0-9_]+\b`)},
		{Kind: KindFunction, Pattern: anchored(`([A-Za-z_][A-Za-z0-9_]*)[ \t]*\(`), Group: 1},
		{Kind: KindIdentifier, Pattern: anchored(`[A-Za-z_][A-Za-z0-9_]*`)},
		{Kind: KindOperator, Pattern: anchored(`->|=>|==|!=|<=|>=|&&|\|\||<<|>>|\+=|-=|\*=|/=|%=|::|\+\+|--|[-+*/%=!<>&|^~?]`)},
		{Kind: KindPunctuation, Pattern: anchored(`[{}\[\]().,;:]|\\.`)},
		{Kind: KindPlain, Pattern: anchored(`[ \t\r\n]+`)},
	}
}

func anchored(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)`)
}

// wordChoice builds an alternation with longer words first, so a word that
// prefixes another can never shadow it.
func wordChoice(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return `(?:` + strings.Join(sorted, `|`) + `)`
}
