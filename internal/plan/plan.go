// Package plan classifies mount table entries and boot-parameter
// overrides into unit plans: fully specified descriptors of the mount,
// swap and automount units to generate.
package plan

// Ordering targets a generated unit may be scheduled before.
const (
	TargetLocalFS      = "local-fs.target"
	TargetRemoteFS     = "remote-fs.target"
	TargetInitrdFS     = "initrd-fs.target"
	TargetInitrdRootFS = "initrd-root-fs.target"
	TargetSwap         = "swap.target"
)

// Kind discriminates the plan variants.
type Kind int

const (
	// KindMount plans a mount unit (plus optionally an automount unit).
	KindMount Kind = iota
	// KindSwap plans a swap unit.
	KindSwap
	// KindSkip records that the entry produces no unit.
	KindSkip
)

// SkipReason explains why an entry produced no unit.
type SkipReason int

const (
	// SkipAutofs: the entry is an autofs placeholder.
	SkipAutofs SkipReason = iota
	// SkipContainer: suppressed because we run in an isolated instance.
	SkipContainer
	// SkipInvalidPath: the mount point is empty or not absolute.
	SkipInvalidPath
	// SkipIgnoredMountPoint: an API filesystem or configured ignore.
	SkipIgnoredMountPoint
)

func (r SkipReason) String() string {
	switch r {
	case SkipAutofs:
		return "autofs placeholder"
	case SkipContainer:
		return "isolated instance"
	case SkipInvalidPath:
		return "invalid mount point"
	case SkipIgnoredMountPoint:
		return "ignored mount point"
	}
	return "unknown"
}

// Plan is the decision for one table entry or boot override.
type Plan struct {
	Kind       Kind
	SkipReason SkipReason // set when Kind == KindSkip

	// What is the resolved device path.
	What string
	// Source is the provenance recorded in the generated unit.
	Source string
	// Name is the generated unit name.
	Name string
	// NoAuto suppresses the activation link.
	NoAuto bool
	// NoFail makes activation best-effort.
	NoFail bool

	// Mount plans only.
	Where     string
	FSType    string // empty when generic
	Options   string // filtered, empty when nothing remains
	PassNo    int    // 0 disables the filesystem check dependency
	Automount bool
	Target    string

	// Swap plans only.
	Priority    int
	HasPriority bool

	// Device job timeout requested via the option string, in seconds.
	DeviceTimeoutSec uint64
	HasDeviceTimeout bool
}

// Skip builds a skip plan.
func Skip(reason SkipReason) Plan {
	return Plan{Kind: KindSkip, SkipReason: reason}
}
