package config

import (
	"fmt"
	"path/filepath"
)

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if c.FstabPath == "" {
		return fmt.Errorf("fstab_path cannot be empty")
	}
	if !filepath.IsAbs(c.FstabPath) {
		return fmt.Errorf("fstab_path %q must be absolute", c.FstabPath)
	}
	if c.SysrootFstabPath == "" {
		return fmt.Errorf("sysroot_fstab_path cannot be empty")
	}
	if !filepath.IsAbs(c.SysrootFstabPath) {
		return fmt.Errorf("sysroot_fstab_path %q must be absolute", c.SysrootFstabPath)
	}
	for _, p := range c.IgnoredMountPoints {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("ignored_mount_points entry %q must be absolute", p)
		}
	}
	return nil
}
