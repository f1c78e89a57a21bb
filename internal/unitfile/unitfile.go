// Package unitfile renders unit plans into init-manager unit descriptor
// files and activation-link requests.
package unitfile

import (
	"fmt"
	"io"
	"strconv"

	sdunit "github.com/coreos/go-systemd/v22/unit"

	"github.com/spin-stack/fstabgen/internal/devpath"
	"github.com/spin-stack/fstabgen/internal/plan"
	"github.com/spin-stack/fstabgen/internal/unitname"
)

// Header is prepended to every generated file.
const Header = "# Automatically generated by fstabgen\n\n"

const documentation = "man:fstab(5) man:fstabgen(8)"

// File is one descriptor to be written into the destination directory.
// Name may contain a directory component for drop-ins.
type File struct {
	Name    string
	Options []*sdunit.UnitOption
	// DropIn marks configuration fragments that may be regenerated,
	// as opposed to unit files whose names must be unique per run.
	DropIn bool
}

// LinkMode selects the activation-link directory flavor.
type LinkMode string

const (
	// LinkWants is the best-effort registration.
	LinkWants LinkMode = ".wants"
	// LinkRequires is the mandatory registration.
	LinkRequires LinkMode = ".requires"
)

// Link requests registration of a unit in target's wants or requires
// directory.
type Link struct {
	Target string
	Mode   LinkMode
	Unit   string
}

// Output is everything one plan emits.
type Output struct {
	Files []File
	Links []Link
}

// Emit renders a mount or swap plan. Skip plans emit nothing.
func Emit(p plan.Plan) Output {
	switch p.Kind {
	case plan.KindMount:
		return emitMount(p)
	case plan.KindSwap:
		return emitSwap(p)
	}
	return Output{}
}

func emitMount(p plan.Plan) Output {
	opts := []*sdunit.UnitOption{
		sdunit.NewUnitOption("Unit", "SourcePath", p.Source),
		sdunit.NewUnitOption("Unit", "Documentation", documentation),
	}

	// Only a required, immediately-activated member is ordered before
	// its target; deferred and best-effort mounts must not delay it.
	if p.Target != "" && !p.NoAuto && !p.NoFail && !p.Automount {
		opts = append(opts, sdunit.NewUnitOption("Unit", "Before", p.Target))
	}

	if p.PassNo != 0 {
		fsck := fsckUnit(p.What)
		opts = append(opts,
			sdunit.NewUnitOption("Unit", "Requires", fsck),
			sdunit.NewUnitOption("Unit", "After", fsck),
		)
	}

	opts = append(opts,
		sdunit.NewUnitOption("Mount", "What", p.What),
		sdunit.NewUnitOption("Mount", "Where", p.Where),
	)
	if p.FSType != "" && p.FSType != "auto" {
		opts = append(opts, sdunit.NewUnitOption("Mount", "Type", p.FSType))
	}
	if p.Options != "" {
		opts = append(opts, sdunit.NewUnitOption("Mount", "Options", p.Options))
	}

	out := Output{Files: []File{{Name: p.Name, Options: opts}}}

	if !p.NoAuto && p.Target != "" {
		mode := LinkRequires
		if p.NoFail || p.Automount {
			mode = LinkWants
		}
		out.Links = append(out.Links, Link{Target: p.Target, Mode: mode, Unit: p.Name})
	}

	if p.Automount {
		out = emitAutomount(p, out)
	}

	return appendDeviceTimeout(p, out)
}

func emitAutomount(p plan.Plan, out Output) Output {
	name := unitname.FromPath(p.Where, unitname.SuffixAutomount)

	opts := []*sdunit.UnitOption{
		sdunit.NewUnitOption("Unit", "SourcePath", p.Source),
		sdunit.NewUnitOption("Unit", "Documentation", documentation),
	}
	if p.Target != "" {
		opts = append(opts, sdunit.NewUnitOption("Unit", "Before", p.Target))
	}
	opts = append(opts, sdunit.NewUnitOption("Automount", "Where", p.Where))

	out.Files = append(out.Files, File{Name: name, Options: opts})

	if !p.NoAuto && p.Target != "" {
		mode := LinkRequires
		if p.NoFail {
			mode = LinkWants
		}
		out.Links = append(out.Links, Link{Target: p.Target, Mode: mode, Unit: name})
	}
	return out
}

func emitSwap(p plan.Plan) Output {
	opts := []*sdunit.UnitOption{
		sdunit.NewUnitOption("Unit", "SourcePath", p.Source),
		sdunit.NewUnitOption("Unit", "Documentation", documentation),
		sdunit.NewUnitOption("Swap", "What", p.What),
	}
	// The priority is emitted twice: once as Priority=, once embedded in
	// the option string.
	if p.HasPriority {
		opts = append(opts, sdunit.NewUnitOption("Swap", "Priority", strconv.Itoa(p.Priority)))
	}
	if p.Options != "" {
		opts = append(opts, sdunit.NewUnitOption("Swap", "Options", p.Options))
	}

	out := Output{Files: []File{{Name: p.Name, Options: opts}}}

	if !p.NoAuto {
		mode := LinkRequires
		if p.NoFail {
			mode = LinkWants
		}
		out.Links = append(out.Links, Link{Target: p.Target, Mode: mode, Unit: p.Name})
	}

	return appendDeviceTimeout(p, out)
}

// appendDeviceTimeout adds the device job-timeout drop-in when one was
// requested and the device is a real device node.
func appendDeviceTimeout(p plan.Plan, out Output) Output {
	if !p.HasDeviceTimeout || !devpath.IsDevicePath(p.What) {
		return out
	}

	name := unitname.FromPath(p.What, unitname.SuffixDevice)
	out.Files = append(out.Files, File{
		Name:   name + ".d/50-device-timeout.conf",
		DropIn: true,
		Options: []*sdunit.UnitOption{
			sdunit.NewUnitOption("Unit", "JobTimeoutSec", strconv.FormatUint(p.DeviceTimeoutSec, 10)),
		},
	})
	return out
}

// Render serializes a descriptor file to its on-disk representation.
func Render(f File) ([]byte, error) {
	body, err := io.ReadAll(sdunit.Serialize(f.Options))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", f.Name, err)
	}
	return append([]byte(Header), body...), nil
}

// fsckUnit is the filesystem-check service instance for a device.
func fsckUnit(what string) string {
	return "systemd-fsck@" + sdunit.UnitNamePathEscape(what) + ".service"
}
