// Package cmdline parses kernel command-line parameters and folds the
// mount-related ones into an overrides record.
package cmdline

import (
	"fmt"
	"os"
	"strings"

	"github.com/spin-stack/fstabgen/internal/paths"
)

// Param is a single kernel command-line parameter, either a bare flag or
// a key=value pair.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

// Parse splits a raw kernel command line into parameters, preserving the
// order in which they appear. Values may be surrounded by double quotes
// to protect embedded whitespace.
func Parse(raw string) []Param {
	var params []Param

	for _, word := range splitQuoted(raw) {
		key, value, found := strings.Cut(word, "=")
		if key == "" {
			continue
		}
		params = append(params, Param{
			Key:      key,
			Value:    unquote(value),
			HasValue: found,
		})
	}
	return params
}

// ReadProc reads and parses the kernel command line of the running
// system.
func ReadProc() ([]Param, error) {
	path := paths.GetProcCmdline()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(string(b)), nil
}

// splitQuoted splits on whitespace, keeping double-quoted spans intact.
func splitQuoted(s string) []string {
	var (
		words  []string
		word   strings.Builder
		quoted bool
	)
	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			quoted = !quoted
			word.WriteByte(c)
		case !quoted && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			flush()
		default:
			word.WriteByte(c)
		}
	}
	flush()

	return words
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
