// Package unitname maps filesystem paths to init-manager unit names.
package unitname

import (
	"path/filepath"

	"github.com/coreos/go-systemd/v22/unit"
)

// Unit name suffixes for the generated unit kinds.
const (
	SuffixMount     = ".mount"
	SuffixSwap      = ".swap"
	SuffixAutomount = ".automount"
	SuffixDevice    = ".device"
)

// FromPath maps an absolute path to a unit name with the given suffix.
// The escaping is the manager's own path escaping, so the mapping is
// injective over cleaned absolute paths and the generated names correlate
// with the units the manager instantiates itself. The root path maps to
// the reserved name "-".
func FromPath(path, suffix string) string {
	return unit.UnitNamePathEscape(filepath.Clean(path)) + suffix
}
