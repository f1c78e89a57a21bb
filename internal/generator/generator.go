// Package generator drives the passes over the mount table and the
// kernel command-line overrides, emitting unit descriptors through a
// Sink.
package generator

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"

	"github.com/spin-stack/fstabgen/internal/cmdline"
	"github.com/spin-stack/fstabgen/internal/fstab"
	"github.com/spin-stack/fstabgen/internal/plan"
	"github.com/spin-stack/fstabgen/internal/unitfile"
)

// Options configures a generator run.
type Options struct {
	// FstabPath is the mount table consulted on every run.
	FstabPath string
	// SysrootFstabPath is the host mount table consulted when running
	// in the early-boot environment.
	SysrootFstabPath string
	// ExtraIgnores extends the built-in ignored mount point list.
	ExtraIgnores []string
	// InInitrd enables the boot-override and host-table passes.
	InInitrd bool
	// InContainer suppresses device-backed entries.
	InContainer bool
}

// Runner executes the generator passes. Failures of individual entries
// are recorded and processing continues; the first failure decides the
// run's outcome.
type Runner struct {
	sink    Sink
	opts    Options
	claimed map[string]string // generated unit name -> what claimed it
	failure error
}

// New returns a Runner writing through sink.
func New(sink Sink, opts Options) *Runner {
	return &Runner{
		sink:    sink,
		opts:    opts,
		claimed: make(map[string]string),
	}
}

// Run executes all passes in order: the boot-override mounts when in the
// early-boot environment, the local mount table when enabled, and the
// host mount table when both apply. It returns the first entry failure,
// if any.
func (r *Runner) Run(ctx context.Context, params []cmdline.Param) error {
	overrides := cmdline.CollectOverrides(ctx, params)

	// root= and usr= are always honored in the early-boot environment
	if r.opts.InInitrd {
		r.addOverrideMounts(ctx, &overrides)
	}

	if overrides.FstabEnabled {
		log.G(ctx).WithField("fstab", r.opts.FstabPath).Debug("parsing mount table")
		r.tablePass(ctx, r.opts.FstabPath, false)

		if r.opts.InInitrd {
			log.G(ctx).WithField("fstab", r.opts.SysrootFstabPath).Debug("parsing host mount table")
			r.tablePass(ctx, r.opts.SysrootFstabPath, true)
		}
	}

	return r.failure
}

func (r *Runner) addOverrideMounts(ctx context.Context, overrides *cmdline.Overrides) {
	if p, ok := plan.RootMountPlan(ctx, overrides); ok {
		log.G(ctx).WithField("what", p.What).WithField("where", p.Where).Debug("adding root mount from kernel command line")
		r.emit(ctx, p)
	}
	if p, ok := plan.UsrMountPlan(ctx, overrides); ok {
		log.G(ctx).WithField("what", p.What).WithField("where", p.Where).Debug("adding usr mount from kernel command line")
		r.emit(ctx, p)
	}
}

// tablePass processes one mount table in file order. initrdPass marks
// the host table processed from the early-boot environment: only entries
// needed there are considered, and mount points are re-rooted.
func (r *Runner) tablePass(ctx context.Context, path string, initrdPass bool) {
	entries, err := fstab.ParseFile(path)
	if err != nil {
		log.G(ctx).WithError(err).Error("cannot read mount table")
		r.fail(err)
		return
	}

	env := plan.Context{
		InitrdPass:   initrdPass,
		InContainer:  r.opts.InContainer,
		Source:       path,
		ExtraIgnores: r.opts.ExtraIgnores,
	}

	for _, e := range entries {
		if initrdPass && !plan.NeededInInitrd(e) {
			continue
		}

		log.G(ctx).WithField("what", e.Spec).WithField("where", e.Dir).WithField("type", e.Type).Debug("found entry")

		p, err := plan.Classify(ctx, e, env)
		if err != nil {
			log.G(ctx).WithError(err).WithField("where", e.Dir).Error("failed to classify entry")
			r.fail(err)
			continue
		}
		if p.Kind == plan.KindSkip {
			continue
		}
		r.emit(ctx, p)
	}
}

// emit renders and persists one plan, enforcing unit name uniqueness
// across the whole run.
func (r *Runner) emit(ctx context.Context, p plan.Plan) {
	if prev, ok := r.claimed[p.Name]; ok {
		err := fmt.Errorf("unit %s already generated for %s, duplicate entry for %s: %w",
			p.Name, prev, p.What, errdefs.ErrAlreadyExists)
		log.G(ctx).WithError(err).Error("failed to generate unit")
		r.fail(err)
		return
	}
	r.claimed[p.Name] = p.What

	out := unitfile.Emit(p)
	for _, f := range out.Files {
		data, err := unitfile.Render(f)
		if err != nil {
			log.G(ctx).WithError(err).Error("failed to render unit file")
			r.fail(err)
			return
		}

		write := r.sink.WriteUnit
		if f.DropIn {
			write = r.sink.WriteDropIn
		}
		if err := write(f.Name, data); err != nil {
			log.G(ctx).WithError(err).Error("failed to write unit file")
			r.fail(err)
			return
		}
	}

	for _, l := range out.Links {
		if err := r.sink.Link(l.Target+string(l.Mode), l.Unit); err != nil {
			log.G(ctx).WithError(err).Error("failed to create activation link")
			r.fail(err)
			return
		}
	}
}

func (r *Runner) fail(err error) {
	if r.failure == nil {
		r.failure = err
	}
}
