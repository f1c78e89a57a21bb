package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/containerd/errdefs"
)

// ExtractPriority scans a swap option string for the pri option. A
// missing pri is not an error and reports ok=false. A pri that is present
// but has no value, a non-numeric value, or trailing garbage is a
// malformed entry: the error wraps errdefs.ErrInvalidArgument.
func ExtractPriority(options string) (pri int, ok bool, err error) {
	for _, o := range strings.Split(options, ",") {
		if o == "pri" {
			return 0, false, fmt.Errorf("swap option %q has no value: %w", o, errdefs.ErrInvalidArgument)
		}
		v, found := strings.CutPrefix(o, "pri=")
		if !found {
			continue
		}
		if v == "" || !allDigits(v) {
			return 0, false, fmt.Errorf("swap option %q has a malformed priority: %w", o, errdefs.ErrInvalidArgument)
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("swap option %q has a malformed priority: %w", o, errdefs.ErrInvalidArgument)
		}
		return n, true, nil
	}
	return 0, false, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
