package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readInputSource reads a file, or stdin when source is "-", and trims the
// result.
func readInputSource(source string, stdin io.Reader) (string, error) {
	path := strings.TrimSpace(source)
	if path == "" {
		return "", fmt.Errorf("empty input source")
	}

	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		defer file.Close()
		r = file
	} else if r == nil {
		r = os.Stdin
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// inputHasData reports false only for an interactive terminal on stdin.
func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	file, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
