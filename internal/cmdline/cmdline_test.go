package cmdline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	params := Parse(`root=/dev/sda1 ro quiet rootflags="noatime,discard" console=ttyS0,115200`)
	require.Len(t, params, 5)

	assert.Equal(t, Param{Key: "root", Value: "/dev/sda1", HasValue: true}, params[0])
	assert.Equal(t, Param{Key: "ro"}, params[1])
	assert.Equal(t, Param{Key: "quiet"}, params[2])
	assert.Equal(t, Param{Key: "rootflags", Value: "noatime,discard", HasValue: true}, params[3])
	assert.Equal(t, Param{Key: "console", Value: "ttyS0,115200", HasValue: true}, params[4])
}

func TestParseQuotedSpaces(t *testing.T) {
	params := Parse(`key="a b" next`)
	require.Len(t, params, 2)
	assert.Equal(t, "a b", params[0].Value)
	assert.Equal(t, "next", params[1].Key)
}

func TestParseEmptyValue(t *testing.T) {
	params := Parse("fstab= other")
	require.Len(t, params, 2)
	assert.True(t, params[0].HasValue)
	assert.Equal(t, "", params[0].Value)
}

func collect(t *testing.T, raw string) Overrides {
	t.Helper()
	return CollectOverrides(context.Background(), Parse(raw))
}

func TestCollectOverridesLastWins(t *testing.T) {
	o := collect(t, "root=/dev/sda1 root=/dev/sdb1 rootfstype=ext4 rootfstype=xfs")
	assert.Equal(t, "/dev/sdb1", o.RootDevice)
	assert.Equal(t, "xfs", o.RootFSType)
}

func TestCollectOverridesFlagsConcatenate(t *testing.T) {
	o := collect(t, "root=/dev/sda1 rootflags=noatime rootflags=ro")
	assert.Equal(t, "noatime,ro", o.RootOptions)

	o = collect(t, "mount.usrflags=noatime mount.usrflags=nodev")
	assert.Equal(t, "noatime,nodev", o.UsrOptions)
}

func TestCollectOverridesReadWrite(t *testing.T) {
	assert.Equal(t, RWUnset, collect(t, "root=/dev/sda1").RootRW)
	assert.Equal(t, RWReadWrite, collect(t, "ro rw").RootRW)
	assert.Equal(t, RWReadOnly, collect(t, "rw ro").RootRW)

	// rw/ro with a value are not the read-write switches
	assert.Equal(t, RWUnset, collect(t, "rw=1").RootRW)
}

func TestCollectOverridesFstabSwitch(t *testing.T) {
	assert.True(t, collect(t, "").FstabEnabled)
	assert.False(t, collect(t, "fstab=no").FstabEnabled)
	assert.False(t, collect(t, "rd.fstab=0").FstabEnabled)
	assert.True(t, collect(t, "fstab=0 fstab=yes").FstabEnabled)

	// malformed boolean keeps the previous value
	assert.True(t, collect(t, "fstab=banana").FstabEnabled)
	assert.False(t, collect(t, "fstab=no fstab=banana").FstabEnabled)
}

func TestRootMountOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"default read-only", "root=/dev/sda1", "ro"},
		{"rw switch", "root=/dev/sda1 rw", "rw"},
		{"flags without switch or state", "rootflags=noatime", "noatime,ro"},
		{"flags with rw switch", "rootflags=noatime rw", "noatime,rw"},
		{"flags already state ro", "rootflags=noatime,ro", "noatime,ro"},
		{"switch overrides stated flags", "rootflags=noatime,ro rw", "noatime,ro,rw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := collect(t, tt.raw)
			assert.Equal(t, tt.want, o.RootMountOptions())
		})
	}
}

func TestUsrMountDefaulting(t *testing.T) {
	// wholly unset: no usr mount
	o := collect(t, "root=/dev/sda1 rootflags=ro")
	_, _, _, ok := o.UsrMount()
	assert.False(t, ok)

	// device defaults from root
	o = collect(t, "root=/dev/sda1 rootfstype=ext4 rootflags=ro mount.usrfstype=btrfs")
	device, fstype, options, ok := o.UsrMount()
	require.True(t, ok)
	assert.Equal(t, "/dev/sda1", device)
	assert.Equal(t, "btrfs", fstype)
	assert.Equal(t, "ro", options)

	// no options anywhere: skipped
	o = collect(t, "root=/dev/sda1 mount.usr=/dev/sdb1")
	_, _, _, ok = o.UsrMount()
	assert.False(t, ok)
}
