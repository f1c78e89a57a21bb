package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/containerd/log"

	"github.com/spin-stack/fstabgen/internal/cmdline"
	"github.com/spin-stack/fstabgen/internal/devpath"
	"github.com/spin-stack/fstabgen/internal/fstab"
	"github.com/spin-stack/fstabgen/internal/unitname"
)

// Context carries the run-wide environment a classification depends on.
type Context struct {
	// InitrdPass marks the pass over the host table from inside the
	// early-boot environment: mount points are re-rooted under /sysroot
	// and ordered before the early-boot filesystem target.
	InitrdPass bool

	// InContainer suppresses device-backed entries.
	InContainer bool

	// Source is the provenance recorded in generated units.
	Source string

	// ExtraIgnores extends the built-in ignored mount point list.
	ExtraIgnores []string
}

// Classify maps one table entry to a unit plan. Recoverable conditions
// produce a skip plan with a reason; entry-fatal conditions (malformed
// priority) are returned as errors.
func Classify(ctx context.Context, e fstab.Entry, env Context) (Plan, error) {
	what := devpath.Resolve(e.Spec)

	if e.Type == "autofs" {
		log.G(ctx).WithField("what", what).Debug("skipping autofs placeholder entry")
		return Skip(SkipAutofs), nil
	}

	if env.InContainer && (devpath.IsDevicePath(what) || e.Type == "swap") {
		log.G(ctx).WithField("what", what).Info("running in a container, ignoring device entry")
		return Skip(SkipContainer), nil
	}

	if e.Type == "swap" {
		return classifySwap(ctx, what, e, env)
	}
	return classifyMount(ctx, what, e, env)
}

func classifySwap(ctx context.Context, what string, e fstab.Entry, env Context) (Plan, error) {
	pri, hasPri, err := ExtractPriority(e.Options)
	if err != nil {
		return Plan{}, fmt.Errorf("swap entry for %s: %w", what, err)
	}

	p := Plan{
		Kind:        KindSwap,
		What:        what,
		Source:      env.Source,
		Name:        unitname.FromPath(what, unitname.SuffixSwap),
		NoAuto:      NoAuto(e.Options),
		NoFail:      NoFail(e.Options),
		Options:     FilterOptions(e.Options),
		Target:      TargetSwap,
		Priority:    pri,
		HasPriority: hasPri,
	}
	applyDeviceTimeout(ctx, &p, e.Options)
	return p, nil
}

func classifyMount(ctx context.Context, what string, e fstab.Entry, env Context) (Plan, error) {
	where := e.Dir
	if env.InitrdPass {
		where = "/sysroot/" + strings.TrimPrefix(where, "/")
	}

	if where == "" || !filepath.IsAbs(where) {
		log.G(ctx).WithField("where", where).Warn("mount point is not a valid path, ignoring")
		return Skip(SkipInvalidPath), nil
	}
	where = filepath.Clean(where)

	if IsAPIMountPoint(where) || IsIgnoredMountPoint(where, env.ExtraIgnores) {
		log.G(ctx).WithField("where", where).Debug("skipping API or ignored mount point")
		return Skip(SkipIgnoredMountPoint), nil
	}

	noauto := NoAuto(e.Options)
	nofail := NoFail(e.Options)
	automount := AutomountRequested(e.Options)

	if where == "/" {
		// The root disk is not an option.
		noauto = false
		nofail = false
		automount = false
	}

	var target string
	switch {
	case env.InitrdPass:
		target = TargetInitrdFS
	case NeededInInitrd(e):
		target = TargetInitrdRootFS
	case IsNetwork(e):
		target = TargetRemoteFS
	default:
		target = TargetLocalFS
	}

	p := Plan{
		Kind:      KindMount,
		What:      what,
		Source:    env.Source,
		Name:      unitname.FromPath(where, unitname.SuffixMount),
		NoAuto:    noauto,
		NoFail:    nofail,
		Where:     where,
		FSType:    e.Type,
		Options:   FilterOptions(e.Options),
		PassNo:    e.Pass,
		Automount: automount,
		Target:    target,
	}
	applyDeviceTimeout(ctx, &p, e.Options)
	return p, nil
}

// RootMountPlan synthesizes the early-boot root mount from the collected
// boot overrides. ok is false when no usable root= parameter was given.
func RootMountPlan(ctx context.Context, o *cmdline.Overrides) (Plan, bool) {
	if o.RootDevice == "" {
		log.G(ctx).Debug("no root= entry on the kernel command line")
		return Plan{}, false
	}

	what := devpath.Resolve(o.RootDevice)
	if !filepath.IsAbs(what) {
		log.G(ctx).WithField("what", what).Debug("root device does not resolve to an absolute path, skipping root mount")
		return Plan{}, false
	}

	return overrideMountPlan(what, "/sysroot", o.RootFSType, o.RootMountOptions()), true
}

// UsrMountPlan synthesizes the early-boot secondary volume mount from the
// collected boot overrides. ok is false when no usr mount was requested
// or it cannot be completed from the root fields.
func UsrMountPlan(ctx context.Context, o *cmdline.Overrides) (Plan, bool) {
	device, fstype, options, ok := o.UsrMount()
	if !ok {
		return Plan{}, false
	}

	what := devpath.Resolve(device)
	if !filepath.IsAbs(what) {
		log.G(ctx).WithField("what", what).Debug("usr device does not resolve to an absolute path, skipping usr mount")
		return Plan{}, false
	}

	return overrideMountPlan(what, "/sysroot/usr", fstype, options), true
}

func overrideMountPlan(what, where, fstype, options string) Plan {
	return Plan{
		Kind:    KindMount,
		What:    what,
		Source:  "/proc/cmdline",
		Name:    unitname.FromPath(where, unitname.SuffixMount),
		Where:   where,
		FSType:  fstype,
		Options: FilterOptions(options),
		PassNo:  1,
		Target:  TargetInitrdRootFS,
	}
}

// applyDeviceTimeout extracts a device job timeout request from the raw
// option string. A malformed value is logged and ignored.
func applyDeviceTimeout(ctx context.Context, p *Plan, options string) {
	for _, prefix := range []string{"x-systemd.device-timeout=", "comment=systemd.device-timeout="} {
		for _, o := range strings.Split(options, ",") {
			v, found := strings.CutPrefix(o, prefix)
			if !found {
				continue
			}
			secs, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				log.G(ctx).WithField("option", o).Warn("cannot parse device timeout, ignoring")
				return
			}
			p.DeviceTimeoutSec = secs
			p.HasDeviceTimeout = true
			return
		}
	}
}
