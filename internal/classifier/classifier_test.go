package classifier

import (
	"strings"
	"testing"

	"lumehl/internal/grammar"
)

func checkCoverage(t *testing.T, src string, spans []Span) {
	t.Helper()

	if src == "" {
		if len(spans) != 0 {
			t.Fatalf("empty input produced %d spans", len(spans))
		}
		return
	}

	if len(spans) == 0 {
		t.Fatalf("no spans for %q", src)
	}
	if spans[0].Start != 0 {
		t.Fatalf("first span starts at %d, want 0", spans[0].Start)
	}
	if spans[len(spans)-1].End != len(src) {
		t.Fatalf("last span ends at %d, want %d", spans[len(spans)-1].End, len(src))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].End {
			t.Fatalf("gap or overlap between span %d and %d (%d != %d)", i-1, i, spans[i-1].End, spans[i].Start)
		}
	}
	if got := Concat(src, spans); got != src {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func kindsOf(spans []Span) []grammar.Kind {
	kinds := make([]grammar.Kind, len(spans))
	for i, s := range spans {
		kinds[i] = s.Kind
	}
	return kinds
}

func firstKind(t *testing.T, src string) grammar.Kind {
	t.Helper()
	spans := Classify(src)
	if len(spans) == 0 {
		t.Fatalf("no spans for %q", src)
	}
	return spans[0].Kind
}

func TestRoundTripCoverage(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"let x = 1\n",
		"// a comment\nvar y\n",
		"/* block */ \"str\" 'c' 42 0xFF 3.14 1e9",
		"€ unmatched § bytes",
		"#pragma once\n#require net\n",
		`#"multi
line
string"`,
		"func main() { return fetch(url) -> result; }",
		"\x00\x01\x02",
		"/* unterminated",
		"\"unterminated",
		strings.Repeat("a+b ", 100),
	}

	for _, src := range inputs {
		checkCoverage(t, src, Classify(src))
	}
}

func TestConcreteScenario(t *testing.T) {
	src := "int x = 5; // set x"
	spans := Classify(src)
	checkCoverage(t, src, spans)

	// "int" carries the type refinement; the narrower type rule is declared
	// before the generic keyword rule.
	want := []grammar.Kind{
		grammar.KindType,        // int
		grammar.KindPlain,       // " "
		grammar.KindIdentifier,  // x
		grammar.KindPlain,       // " "
		grammar.KindOperator,    // =
		grammar.KindPlain,       // " "
		grammar.KindNumber,      // 5
		grammar.KindPunctuation, // ;
		grammar.KindPlain,       // " "
		grammar.KindComment,     // // set x
	}
	got := kindsOf(spans)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("span %d kind = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
	if spans[9].Text(src) != "// set x" {
		t.Fatalf("comment text = %q", spans[9].Text(src))
	}
}

func TestKeywordWholeWordBoundary(t *testing.T) {
	spans := Classify("classes")
	if len(spans) != 1 || spans[0].Kind != grammar.KindIdentifier {
		t.Fatalf("classes classified as %v, want one identifier span", kindsOf(spans))
	}

	spans = Classify("class")
	if len(spans) != 1 || spans[0].Kind != grammar.KindKeyword {
		t.Fatalf("class classified as %v, want one keyword span", kindsOf(spans))
	}
}

func TestStringEscapedQuote(t *testing.T) {
	src := `"a\"b"`
	spans := Classify(src)
	if len(spans) != 1 || spans[0].Kind != grammar.KindString {
		t.Fatalf("spans = %v, want one string span", kindsOf(spans))
	}
	if spans[0].Text(src) != src {
		t.Fatalf("string span covers %q, want whole literal", spans[0].Text(src))
	}
}

func TestDocCommentPrecedence(t *testing.T) {
	src := "//! @param x"
	spans := Classify(src)
	if len(spans) != 1 {
		t.Fatalf("spans = %v, want one span", kindsOf(spans))
	}
	span := spans[0]
	if span.Kind != grammar.KindDocComment {
		t.Fatalf("kind = %q, want doc-comment", span.Kind)
	}
	if len(span.Nested) != 1 {
		t.Fatalf("nested = %v, want one doc-tag", span.Nested)
	}
	tag := span.Nested[0]
	if tag.Kind != grammar.KindDocTag {
		t.Fatalf("nested kind = %q, want doc-tag", tag.Kind)
	}
	if tag.Text(src) != "@param" {
		t.Fatalf("nested text = %q, want @param", tag.Text(src))
	}
	if grammar.Alias(tag.Kind) != grammar.KindKeyword {
		t.Fatalf("doc-tag must render as keyword")
	}
}

func TestDocTagsInsidePlainComment(t *testing.T) {
	src := "// handles @deprecated callers"
	spans := Classify(src)
	if len(spans) != 1 || spans[0].Kind != grammar.KindComment {
		t.Fatalf("spans = %v, want one comment span", kindsOf(spans))
	}
	if len(spans[0].Nested) != 1 || spans[0].Nested[0].Text(src) != "@deprecated" {
		t.Fatalf("nested = %v", spans[0].Nested)
	}
}

func TestOperatorLongestMatch(t *testing.T) {
	src := "a->b"
	spans := Classify(src)
	want := []grammar.Kind{grammar.KindIdentifier, grammar.KindOperator, grammar.KindIdentifier}
	got := kindsOf(spans)
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	if spans[1].Text(src) != "->" {
		t.Fatalf("operator span = %q, want ->", spans[1].Text(src))
	}
}

func TestUnterminatedComment(t *testing.T) {
	src := "/* abc"
	spans := Classify(src)
	if len(spans) != 1 || spans[0].Kind != grammar.KindComment {
		t.Fatalf("spans = %v, want one comment span", kindsOf(spans))
	}
	if spans[0].End != len(src) {
		t.Fatalf("comment span ends at %d, want end of input", spans[0].End)
	}
}

func TestUnterminatedString(t *testing.T) {
	src := "x = \"abc\ny"
	spans := Classify(src)
	checkCoverage(t, src, spans)
	var stringSpan *Span
	for i := range spans {
		if spans[i].Kind == grammar.KindString {
			stringSpan = &spans[i]
		}
	}
	if stringSpan == nil {
		t.Fatalf("no string span in %v", kindsOf(spans))
	}
	if stringSpan.End != len(src) {
		t.Fatalf("unterminated string ends at %d, want end of input", stringSpan.End)
	}
}

func TestMultilineString(t *testing.T) {
	src := "#\"first\nsecond\" rest"
	spans := Classify(src)
	checkCoverage(t, src, spans)
	if spans[0].Kind != grammar.KindMultiString {
		t.Fatalf("first span kind = %q, want multiline-string", spans[0].Kind)
	}
	if spans[0].Text(src) != "#\"first\nsecond\"" {
		t.Fatalf("multiline span = %q", spans[0].Text(src))
	}
}

func TestDirectiveLineStartOnly(t *testing.T) {
	spans := Classify("#pragma once")
	if spans[0].Kind != grammar.KindDirective {
		t.Fatalf("line-leading directive classified as %q", spans[0].Kind)
	}

	src := "x #pragma"
	spans = Classify(src)
	checkCoverage(t, src, spans)
	for _, span := range spans {
		if span.Kind == grammar.KindDirective {
			t.Fatalf("mid-line # must not classify as directive: %v", kindsOf(spans))
		}
	}

	spans = Classify("let a\n#endif\n")
	found := false
	for _, span := range spans {
		if span.Kind == grammar.KindDirective {
			found = true
		}
	}
	if !found {
		t.Fatalf("directive after newline not recognized: %v", kindsOf(spans))
	}
}

func TestNumberForms(t *testing.T) {
	tests := map[string]string{
		"0x1F":    "0x1F",
		"42":      "42",
		"3.14":    "3.14",
		"1e9":     "1e9",
		"6.02e23": "6.02e23",
		"1E-4":    "1E-4",
	}
	for src, want := range tests {
		spans := Classify(src)
		if spans[0].Kind != grammar.KindNumber || spans[0].Text(src) != want {
			t.Fatalf("%q classified as %v", src, kindsOf(spans))
		}
	}
}

func TestFunctionCallIdentifier(t *testing.T) {
	src := "open(path)"
	spans := Classify(src)
	checkCoverage(t, src, spans)
	if spans[0].Kind != grammar.KindFunction || spans[0].Text(src) != "open" {
		t.Fatalf("call identifier span = %q/%q", spans[0].Kind, spans[0].Text(src))
	}
	if spans[1].Kind != grammar.KindPunctuation || spans[1].Text(src) != "(" {
		t.Fatalf("paren left for punctuation rule, got %q/%q", spans[1].Kind, spans[1].Text(src))
	}

	// Whitespace between name and paren still counts as a call.
	src = "open (path)"
	spans = Classify(src)
	if spans[0].Kind != grammar.KindFunction {
		t.Fatalf("spaced call classified as %q", spans[0].Kind)
	}
}

func TestConstantsAndBuiltins(t *testing.T) {
	src := "MAX_SIZE http.get(url)"
	spans := Classify(src)
	checkCoverage(t, src, spans)
	got := kindsOf(spans)
	if got[0] != grammar.KindConstant {
		t.Fatalf("MAX_SIZE classified as %q", got[0])
	}
	foundBuiltin := false
	for _, k := range got {
		if k == grammar.KindBuiltin {
			foundBuiltin = true
		}
	}
	if !foundBuiltin {
		t.Fatalf("http not classified as builtin: %v", got)
	}
}

func TestBooleansAndTypesWinOverKeywords(t *testing.T) {
	if k := firstKind(t, "true"); k != grammar.KindBoolean {
		t.Fatalf("true classified as %q", k)
	}
	if k := firstKind(t, "null"); k != grammar.KindBoolean {
		t.Fatalf("null classified as %q", k)
	}
	if k := firstKind(t, "string"); k != grammar.KindType {
		t.Fatalf("string classified as %q", k)
	}
	if k := firstKind(t, "while"); k != grammar.KindKeyword {
		t.Fatalf("while classified as %q", k)
	}
}

func TestUnmatchedBytesMergeToOnePlainSpan(t *testing.T) {
	src := "€§¶"
	spans := Classify(src)
	if len(spans) != 1 || spans[0].Kind != grammar.KindPlain {
		t.Fatalf("spans = %v, want one plain span", kindsOf(spans))
	}
	checkCoverage(t, src, spans)
}

func TestKindIdempotenceOnIsolatedSpans(t *testing.T) {
	src := "if count >= 10 { emit(\"done\") } // done @see emit\n"
	spans := Classify(src)
	checkCoverage(t, src, spans)

	for _, span := range spans {
		// Function-call identifiers lose their trailing paren in isolation
		// and doc-tags need comment context; both are context-sensitive.
		if span.Kind == grammar.KindFunction {
			continue
		}
		isolated := Classify(span.Text(src))
		if len(isolated) == 0 {
			t.Fatalf("no spans for isolated %q", span.Text(src))
		}
		if isolated[0].Kind != span.Kind {
			t.Fatalf("isolated %q = %q, want %q", span.Text(src), isolated[0].Kind, span.Kind)
		}
	}
}

func TestFlattenProjectsDocTags(t *testing.T) {
	src := "//! @param x the input"
	flat := Flatten(Classify(src))
	want := []grammar.Kind{grammar.KindDocComment, grammar.KindDocTag, grammar.KindDocComment}
	got := kindsOf(flat)
	if len(got) != len(want) {
		t.Fatalf("flattened = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flattened = %v, want %v", got, want)
		}
	}
	if got := Concat(src, flat); got != src {
		t.Fatalf("flatten lost text: %q", got)
	}
	if flat[1].Text(src) != "@param" {
		t.Fatalf("doc-tag text = %q", flat[1].Text(src))
	}
}

func TestClassifyIsPure(t *testing.T) {
	src := "let x = 1 // note\n"
	a := Classify(src)
	b := Classify(src)
	if len(a) != len(b) {
		t.Fatalf("repeated classification differs")
	}
	for i := range a {
		if a[i].Start != b[i].Start || a[i].End != b[i].End || a[i].Kind != b[i].Kind {
			t.Fatalf("repeated classification differs at span %d", i)
		}
	}
}
