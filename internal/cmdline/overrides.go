package cmdline

import (
	"context"
	"fmt"
	"strings"

	"github.com/containerd/log"
)

// RWState is the tri-state read-write override for the root filesystem.
type RWState int

const (
	// RWUnset means neither "rw" nor "ro" was given.
	RWUnset RWState = iota
	// RWReadOnly means the last of "rw"/"ro" seen was "ro".
	RWReadOnly
	// RWReadWrite means the last of "rw"/"ro" seen was "rw".
	RWReadWrite
)

// Overrides is the normalized record of mount-related kernel command-line
// parameters. It is built once per run; repeated scalar keys are
// last-wins, the flag keys concatenate.
type Overrides struct {
	RootDevice  string
	RootFSType  string
	RootOptions string
	RootRW      RWState

	UsrDevice  string
	UsrFSType  string
	UsrOptions string

	// FstabEnabled controls whether the mount table is honored at all.
	FstabEnabled bool
}

// CollectOverrides folds the ordered parameter list into an Overrides
// record. Unrecognized keys are ignored; a malformed fstab= boolean is
// logged and leaves the previous value in place.
func CollectOverrides(ctx context.Context, params []Param) Overrides {
	o := Overrides{FstabEnabled: true}

	for _, p := range params {
		switch p.Key {
		case "fstab", "rd.fstab":
			if !p.HasValue {
				continue
			}
			enabled, err := parseBool(p.Value)
			if err != nil {
				log.G(ctx).WithField("value", p.Value).Warn("cannot parse fstab= switch, ignoring")
				continue
			}
			o.FstabEnabled = enabled
		case "root":
			if p.HasValue {
				o.RootDevice = p.Value
			}
		case "rootfstype":
			if p.HasValue {
				o.RootFSType = p.Value
			}
		case "rootflags":
			if p.HasValue {
				o.RootOptions = appendOptions(o.RootOptions, p.Value)
			}
		case "mount.usr":
			if p.HasValue {
				o.UsrDevice = p.Value
			}
		case "mount.usrfstype":
			if p.HasValue {
				o.UsrFSType = p.Value
			}
		case "mount.usrflags":
			if p.HasValue {
				o.UsrOptions = appendOptions(o.UsrOptions, p.Value)
			}
		case "rw":
			if !p.HasValue {
				o.RootRW = RWReadWrite
			}
		case "ro":
			if !p.HasValue {
				o.RootRW = RWReadOnly
			}
		}
	}
	return o
}

// RootMountOptions resolves the option string for the root mount,
// combining rootflags= with the rw/ro switches. Without rootflags= the
// result is just "ro" or "rw"; with rootflags= the switch is appended
// unless the flags already state one and no switch was given.
func (o *Overrides) RootMountOptions() string {
	rw := "ro"
	if o.RootRW == RWReadWrite {
		rw = "rw"
	}

	if o.RootOptions == "" {
		return rw
	}
	if o.RootRW != RWUnset || (!hasOption(o.RootOptions, "ro") && !hasOption(o.RootOptions, "rw")) {
		return o.RootOptions + "," + rw
	}
	return o.RootOptions
}

// UsrMount returns the device, filesystem type and options for the
// secondary /usr volume, each field defaulting from its root counterpart.
// ok is false when no usr mount was requested, or when defaulting still
// leaves the device or options empty.
func (o *Overrides) UsrMount() (device, fstype, options string, ok bool) {
	if o.UsrDevice == "" && o.UsrFSType == "" && o.UsrOptions == "" {
		return "", "", "", false
	}

	device, fstype, options = o.UsrDevice, o.UsrFSType, o.UsrOptions
	if device == "" {
		device = o.RootDevice
	}
	if fstype == "" {
		fstype = o.RootFSType
	}
	if options == "" {
		options = o.RootOptions
	}
	if device == "" || options == "" {
		return "", "", "", false
	}
	return device, fstype, options, true
}

func appendOptions(existing, more string) string {
	if existing == "" {
		return more
	}
	return existing + "," + more
}

// hasOption reports whether the comma-separated option string contains
// the named option, either bare or with a value.
func hasOption(options, name string) bool {
	for _, o := range strings.Split(options, ",") {
		if o == name || strings.HasPrefix(o, name+"=") {
			return true
		}
	}
	return false
}

// parseBool accepts the boolean spellings the init manager recognizes.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "yes", "y", "true", "t", "on":
		return true, nil
	case "0", "no", "n", "false", "f", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}
