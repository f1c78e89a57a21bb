// Package devpath resolves fstab device specifications to device node
// paths.
package devpath

import (
	"fmt"
	"strings"
)

var tagDirs = []struct {
	prefix string
	dir    string
}{
	{"UUID=", "/dev/disk/by-uuid/"},
	{"LABEL=", "/dev/disk/by-label/"},
	{"PARTUUID=", "/dev/disk/by-partuuid/"},
	{"PARTLABEL=", "/dev/disk/by-partlabel/"},
}

// Resolve maps tag-based device specs (UUID=, LABEL=, PARTUUID=,
// PARTLABEL=, case-insensitive) to the corresponding /dev/disk/by-*
// symlink path. Any other spec is returned unchanged.
func Resolve(spec string) string {
	for _, t := range tagDirs {
		if len(spec) > len(t.prefix) && strings.EqualFold(spec[:len(t.prefix)], t.prefix) {
			return t.dir + encode(spec[len(t.prefix):])
		}
	}
	return spec
}

// IsDevicePath reports whether the path refers to a device node.
func IsDevicePath(path string) bool {
	return strings.HasPrefix(path, "/dev/")
}

// encode applies the same \xXX hex encoding the device manager uses when
// it creates the by-label/by-partlabel symlinks, so resolved paths match
// the links on disk.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' || c == '\\' || c <= ' ' || c >= 0x7f {
			fmt.Fprintf(&b, `\x%02x`, c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
