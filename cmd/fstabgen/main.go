package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/containerd/log"
	"golang.org/x/sys/unix"

	"github.com/spin-stack/fstabgen/internal/cmdline"
	"github.com/spin-stack/fstabgen/internal/config"
	"github.com/spin-stack/fstabgen/internal/generator"
	"github.com/spin-stack/fstabgen/internal/paths"
	"github.com/spin-stack/fstabgen/internal/sysenv"
	"github.com/spin-stack/fstabgen/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	debug := flag.Bool("debug", os.Getenv("FSTABGEN_DEBUG") != "", "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return 0
	}

	if *debug {
		if err := log.SetLevel("debug"); err != nil {
			log.L.WithError(err).Warn("failed to set log level")
		}
	}

	// The init manager invokes generators with three destination
	// directories; everything we produce goes into the first. Invoked by
	// hand with no arguments, the default destination is used.
	dest := paths.GetDestDir()
	switch flag.NArg() {
	case 0:
	case 3:
		dest = flag.Arg(0)
	default:
		log.L.Error("this program takes three or no arguments")
		return 1
	}

	unix.Umask(0022)

	ctx := context.Background()

	cfg, err := config.Get()
	if err != nil {
		log.G(ctx).WithError(err).Error("failed to load configuration")
		return 1
	}

	params, err := cmdline.ReadProc()
	if err != nil {
		log.G(ctx).WithError(err).Warn("failed to parse kernel command line, ignoring")
	}

	r := generator.New(generator.NewDirSink(dest), generator.Options{
		FstabPath:        cfg.FstabPath,
		SysrootFstabPath: cfg.SysrootFstabPath,
		ExtraIgnores:     cfg.IgnoredMountPoints,
		InInitrd:         sysenv.InInitrd(),
		InContainer:      sysenv.InContainer(),
	})
	if err := r.Run(ctx, params); err != nil {
		log.G(ctx).WithError(err).Error("generation finished with errors")
		return 1
	}
	return 0
}
