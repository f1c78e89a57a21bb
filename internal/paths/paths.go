// Package paths provides standard filesystem paths used by fstabgen.
package paths

import "os"

const (
	// DestDir is the default unit output directory when no destination
	// argument is given.
	DestDir = "/tmp"

	// FstabPath is the mount table consulted on every run.
	FstabPath = "/etc/fstab"

	// SysrootFstabPath is the host mount table consulted during the
	// early-boot pass.
	SysrootFstabPath = "/sysroot/etc/fstab"

	// ProcCmdline is where the kernel command line is read from.
	ProcCmdline = "/proc/cmdline"

	// InitrdRelease marks an early-boot (initrd) environment when present.
	InitrdRelease = "/etc/initrd-release"
)

// GetDestDir returns the unit output directory, checking environment
// variables first.
func GetDestDir() string {
	if dir := os.Getenv("FSTABGEN_DEST_DIR"); dir != "" {
		return dir
	}
	return DestDir
}

// GetFstabPath returns the mount table path, checking environment
// variables first.
func GetFstabPath() string {
	if path := os.Getenv("FSTABGEN_FSTAB"); path != "" {
		return path
	}
	return FstabPath
}

// GetSysrootFstabPath returns the early-boot host mount table path,
// checking environment variables first.
func GetSysrootFstabPath() string {
	if path := os.Getenv("FSTABGEN_SYSROOT_FSTAB"); path != "" {
		return path
	}
	return SysrootFstabPath
}

// GetProcCmdline returns the kernel command line path, checking
// environment variables first.
func GetProcCmdline() string {
	if path := os.Getenv("FSTABGEN_PROC_CMDLINE"); path != "" {
		return path
	}
	return ProcCmdline
}
