package fstab

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `
# static file system information
/dev/sda1  /      ext4  errors=remount-ro  0  1

UUID=0a3407de-014b-458b-b5c1-848e92a327a3  /home  ext4  defaults  0  2
/dev/sdb1  none   swap  pri=10             0  0
tmpfs      /tmp   tmpfs nosuid,nodev
`
	entries, err := Parse(strings.NewReader(input), "test")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{
		Spec:    "/dev/sda1",
		Dir:     "/",
		Type:    "ext4",
		Options: "errors=remount-ro",
		Pass:    1,
	}, entries[0])
	assert.Equal(t, "UUID=0a3407de-014b-458b-b5c1-848e92a327a3", entries[1].Spec)
	assert.Equal(t, 2, entries[1].Pass)
	assert.Equal(t, "swap", entries[2].Type)

	// dump/pass are optional and default to zero
	assert.Equal(t, 0, entries[3].Dump)
	assert.Equal(t, 0, entries[3].Pass)
}

func TestParseOctalEscapes(t *testing.T) {
	entries, err := Parse(strings.NewReader(`/dev/sda1 /mnt/with\040space ext4 defaults 0 0`), "test")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/mnt/with space", entries[0].Dir)
}

func TestParseErrors(t *testing.T) {
	for name, input := range map[string]string{
		"too few fields":  "/dev/sda1 /mnt ext4",
		"too many fields": "/dev/sda1 /mnt ext4 defaults 0 0 0",
		"bad dump":        "/dev/sda1 /mnt ext4 defaults x 0",
		"bad pass":        "/dev/sda1 /mnt ext4 defaults 0 x",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input), "test")
			assert.Error(t, err)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	entries, err := ParseFile(filepath.Join(t.TempDir(), "no-such-fstab"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
