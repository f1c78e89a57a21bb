// Package sysenv answers questions about the execution environment: is
// this process running in an initrd, and is it running inside a
// container or another isolated instance.
package sysenv

import (
	"bytes"
	"os"
	"sync"

	"github.com/spin-stack/fstabgen/internal/paths"
)

var (
	containerOnce sync.Once
	containerFlag bool

	initrdOnce sync.Once
	initrdFlag bool
)

// InContainer reports whether the process runs inside a container. The
// result is computed once and cached.
func InContainer() bool {
	containerOnce.Do(func() {
		containerFlag = detectContainer()
	})
	return containerFlag
}

// InInitrd reports whether the process runs in the early-boot initrd
// environment. The result is computed once and cached.
func InInitrd() bool {
	initrdOnce.Do(func() {
		_, err := os.Stat(paths.InitrdRelease)
		initrdFlag = err == nil
	})
	return initrdFlag
}

func detectContainer() bool {
	// PID 1 exports $container when it was started by a container manager.
	if isContainerMarker(os.Getenv("container")) {
		return true
	}

	if b, err := os.ReadFile("/run/systemd/container"); err == nil && isContainerMarker(string(bytes.TrimSpace(b))) {
		return true
	}

	// OpenVZ guests have /proc/vz but not /proc/bc.
	if _, err := os.Stat("/proc/vz"); err == nil {
		if _, err := os.Stat("/proc/bc"); err != nil {
			return true
		}
	}

	if env, err := os.ReadFile("/proc/1/environ"); err == nil && containerFromEnviron(env) {
		return true
	}

	return false
}

// containerFromEnviron scans a NUL-separated environment block for a
// container= marker.
func containerFromEnviron(environ []byte) bool {
	for _, kv := range bytes.Split(environ, []byte{0}) {
		if v, ok := bytes.CutPrefix(kv, []byte("container=")); ok && isContainerMarker(string(v)) {
			return true
		}
	}
	return false
}

func isContainerMarker(v string) bool {
	return v != "" && v != "none"
}
