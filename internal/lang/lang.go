package lang

import (
	"path/filepath"
	"strings"
)

type ID string

const (
	Plain ID = "plain"
	Lumen ID = "lumen"
)

var extMap = map[string]ID{
	".lum":   Lumen,
	".lumen": Lumen,
}

// tagMap maps fenced-code info strings and other host-supplied language tags
// to an ID. Unknown tags stay plain rather than guessing.
var tagMap = map[string]ID{
	"lumen": Lumen,
	"lum":   Lumen,
	"":      Plain,
	"plain": Plain,
	"text":  Plain,
	"txt":   Plain,
}

func Detect(path string) ID {
	ext := strings.ToLower(filepath.Ext(filepath.Base(path)))
	if id, ok := extMap[ext]; ok {
		return id
	}
	return Plain
}

func DetectTag(tag string) ID {
	if id, ok := tagMap[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return id
	}
	return Plain
}

func DetectWithShebang(path string, firstLine string) ID {
	if id := Detect(path); id != Plain {
		return id
	}

	if !strings.HasPrefix(firstLine, "#!") {
		return Plain
	}
	if strings.Contains(strings.ToLower(firstLine), "lumen") {
		return Lumen
	}
	return Plain
}
