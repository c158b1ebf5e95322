package readfile

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadSource loads a file with line endings normalized to \n so classifier
// offsets line up with what the terminal shows.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Normalize(string(data)), nil
}

// ReadAll drains a reader (typically stdin) with the same normalization.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return Normalize(string(data)), nil
}

func Normalize(src string) string {
	return strings.ReplaceAll(src, "\r\n", "\n")
}
