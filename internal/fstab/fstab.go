// Package fstab reads mount table files in the traditional six-field
// fstab(5) format.
package fstab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is one mount table record, immutable once read.
type Entry struct {
	Spec    string // device spec: a path or a UUID=/LABEL=/PARTUUID=/PARTLABEL= tag
	Dir     string // mount point
	Type    string // filesystem type, "auto" means unspecified
	Options string // raw comma-separated option string
	Dump    int    // dump(8) flag, carried but unused downstream
	Pass    int    // fsck(8) ordering, 0 disables checking
}

// ParseFile reads path and returns its entries in file order. A missing
// file is not an error and yields no entries.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads fstab lines from r. The name is used in error messages only.
func Parse(r io.Reader, name string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 || len(fields) > 6 {
			return nil, fmt.Errorf("%s:%d: expected 4 to 6 fields, got %d", name, lineno, len(fields))
		}

		e := Entry{
			Spec:    unescape(fields[0]),
			Dir:     unescape(fields[1]),
			Type:    fields[2],
			Options: fields[3],
		}
		if len(fields) > 4 {
			n, err := strconv.Atoi(fields[4])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid dump field %q", name, lineno, fields[4])
			}
			e.Dump = n
		}
		if len(fields) > 5 {
			n, err := strconv.Atoi(fields[5])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid pass field %q", name, lineno, fields[5])
			}
			e.Pass = n
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return entries, nil
}

// unescape decodes the octal escapes getmntent(3) uses for embedded
// whitespace, e.g. "\040" for a space.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
