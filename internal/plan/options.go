package plan

import (
	"strings"

	"github.com/spin-stack/fstabgen/internal/fstab"
)

// networkFilesystems are filesystem types that reach over the network and
// therefore depend on the network being up.
var networkFilesystems = map[string]bool{
	"cifs":  true,
	"smbfs": true,
	"ncpfs": true,
	"ncp":   true,
	"nfs":   true,
	"nfs4":  true,
	"gfs":   true,
	"gfs2":  true,
}

// apiMountPoints are paths the init manager mounts on its own; table
// entries for them are ignored.
var apiMountPoints = []string{
	"/proc",
	"/proc/sys/fs/binfmt_misc",
	"/sys",
	"/sys/fs/cgroup",
	"/sys/fs/fuse/connections",
	"/sys/fs/selinux",
	"/sys/kernel/config",
	"/sys/kernel/debug",
	"/sys/kernel/security",
	"/dev",
	"/dev/pts",
	"/dev/shm",
	"/dev/hugepages",
	"/dev/mqueue",
	"/run",
	"/run/lock",
}

// ignoredMountPoints are legacy paths never worth a unit.
var ignoredMountPoints = []string{
	"/selinux",
	"/proc/bus/usb",
}

// HasOption reports whether the comma-separated option string contains
// the named option, either bare or with a =value.
func HasOption(options, name string) bool {
	for _, o := range strings.Split(options, ",") {
		if o == name || strings.HasPrefix(o, name+"=") {
			return true
		}
	}
	return false
}

// IsNetwork reports whether the entry describes a network-backed mount,
// either via the _netdev marker or by filesystem type.
func IsNetwork(e fstab.Entry) bool {
	return HasOption(e.Options, "_netdev") || networkFilesystems[e.Type]
}

// NeededInInitrd reports whether the entry must already be mounted in the
// early-boot environment: the marker option, or the /usr mount point.
func NeededInInitrd(e fstab.Entry) bool {
	return HasOption(e.Options, "x-initrd.mount") || e.Dir == "/usr"
}

// NoAuto reports whether automatic activation is suppressed.
func NoAuto(options string) bool {
	return HasOption(options, "noauto")
}

// NoFail reports whether activation failures are to be ignored.
func NoFail(options string) bool {
	return HasOption(options, "nofail")
}

// AutomountRequested reports whether on-demand activation was requested,
// in either the native or the legacy comment spelling.
func AutomountRequested(options string) bool {
	return HasOption(options, "x-systemd.automount") ||
		HasOption(options, "comment=systemd.automount")
}

// IsAPIMountPoint reports whether where is one of the virtual filesystem
// paths the init manager maintains itself.
func IsAPIMountPoint(where string) bool {
	for _, p := range apiMountPoints {
		if where == p {
			return true
		}
	}
	return false
}

// IsIgnoredMountPoint reports whether where is on the built-in or the
// supplied extra ignore list.
func IsIgnoredMountPoint(where string, extra []string) bool {
	for _, p := range ignoredMountPoints {
		if where == p {
			return true
		}
	}
	for _, p := range extra {
		if where == p {
			return true
		}
	}
	return false
}

// consumedOption reports whether the option is a marker interpreted by
// the generator itself, to be stripped before emission. The "defaults"
// placeholder carries no information and is stripped as well, which makes
// filtering idempotent.
func consumedOption(o string) bool {
	switch o {
	case "defaults", "noauto", "auto", "nofail",
		"x-systemd.automount", "comment=systemd.automount",
		"x-initrd.mount":
		return true
	}
	return strings.HasPrefix(o, "x-systemd.device-timeout=") ||
		strings.HasPrefix(o, "comment=systemd.device-timeout=")
}

// FilterOptions strips generator-consumed marker options from the raw
// option string and returns what remains, empty when nothing is left.
func FilterOptions(options string) string {
	if options == "" || options == "defaults" {
		return ""
	}

	kept := make([]string, 0, strings.Count(options, ",")+1)
	for _, o := range strings.Split(options, ",") {
		if o == "" || consumedOption(o) {
			continue
		}
		kept = append(kept, o)
	}
	return strings.Join(kept, ",")
}
