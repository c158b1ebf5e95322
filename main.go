package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"lumehl/internal/chromalex"
	"lumehl/internal/classifier"
	"lumehl/internal/highlighter"
	"lumehl/internal/lang"
	"lumehl/internal/readfile"
)

type config struct {
	Theme       string
	Format      string
	Lang        string
	Interactive bool
	LineNumbers bool
	CacheSize   int
	Workers     int
	MaxBytes    int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.Theme, "theme", "nord", "color theme (for example: nord, dracula, monokai, github, solarized-dark)")
	flag.StringVar(&cfg.Format, "format", "ansi", "output format: ansi, html, css or spans")
	flag.StringVar(&cfg.Lang, "lang", "", "force language tag (lumen or plain); default detects from filename")
	flag.BoolVar(&cfg.Interactive, "interactive", false, "open a scrollable viewer instead of printing")
	flag.BoolVar(&cfg.LineNumbers, "line-numbers", true, "show a line number gutter in ansi output")
	flag.IntVar(&cfg.CacheSize, "cache-size", 1024, "highlight cache entries")
	flag.IntVar(&cfg.Workers, "workers", max(1, runtime.GOMAXPROCS(0)-1), "highlight workers")
	flag.IntVar(&cfg.MaxBytes, "max-bytes", 1<<20, "largest input classified before degrading to plain")
	flag.Parse()

	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := run(cfg, path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "lumehl: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, path string, out io.Writer) error {
	// Explicit registration: hosts rendering through chroma resolve the
	// lexer by tag, the direct classifier path below does not need it.
	chromalex.Register()

	if err := SetTheme(cfg.Theme); err != nil {
		return err
	}

	source, id, err := loadInput(cfg, path)
	if err != nil {
		return err
	}

	h := highlighter.New(highlighter.Config{
		CacheSize:      cfg.CacheSize,
		Workers:        cfg.Workers,
		MaxSourceBytes: cfg.MaxBytes,
	})

	if cfg.Interactive {
		return runViewer(cfg, displayName(path), source, id, h)
	}

	switch cfg.Format {
	case "ansi":
		spans := h.Highlight(highlighter.Request{Lang: id, Text: source})
		fmt.Fprint(out, renderANSI(source, spans, cfg.LineNumbers))
		return nil
	case "html":
		return chromalex.WriteHTML(out, source, cfg.Theme)
	case "css":
		return chromalex.WriteCSS(out, cfg.Theme)
	case "spans":
		spans := h.Highlight(highlighter.Request{Lang: id, Text: source})
		writeSpans(out, source, spans)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use ansi, html, css or spans)", cfg.Format)
	}
}

func loadInput(cfg config, path string) (string, lang.ID, error) {
	var source string
	var err error

	if path == "" || path == "-" {
		source, err = readfile.ReadAll(os.Stdin)
	} else {
		source, err = readfile.ReadSource(path)
	}
	if err != nil {
		return "", lang.Plain, err
	}

	id := detectInput(cfg, path, source)
	return source, id, nil
}

func detectInput(cfg config, path string, source string) lang.ID {
	if cfg.Lang != "" {
		return lang.DetectTag(cfg.Lang)
	}
	if path == "" || path == "-" {
		// Stdin carries no filename; assume the target language.
		return lang.Lumen
	}
	firstLine, _, _ := strings.Cut(source, "\n")
	return lang.DetectWithShebang(path, firstLine)
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "(stdin)"
	}
	return path
}

func writeSpans(out io.Writer, source string, spans []classifier.Span) {
	for _, span := range classifier.Flatten(spans) {
		fmt.Fprintf(out, "%d\t%d\t%s\t%q\n", span.Start, span.End, span.Kind, span.Text(source))
	}
}
