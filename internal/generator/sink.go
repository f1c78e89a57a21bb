package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists emitted unit files and activation links. It exists so
// the orchestration logic can be exercised without touching a
// filesystem.
type Sink interface {
	// WriteUnit creates a unit file. The file must not already exist.
	WriteUnit(name string, data []byte) error
	// WriteDropIn creates or replaces a configuration fragment; name may
	// contain a directory component.
	WriteDropIn(name string, data []byte) error
	// Link registers unit in target's wants or requires directory. dir
	// is the directory name relative to the destination, e.g.
	// "local-fs.target.requires".
	Link(dir, unit string) error
}

// DirSink writes units into a destination directory the way the init
// manager expects generators to.
type DirSink struct {
	Dest string
}

// NewDirSink returns a sink rooted at dest.
func NewDirSink(dest string) *DirSink {
	return &DirSink{Dest: dest}
}

func (s *DirSink) WriteUnit(name string, data []byte) error {
	path := filepath.Join(s.Dest, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create unit file %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write unit file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write unit file %s: %w", path, err)
	}
	return nil
}

func (s *DirSink) WriteDropIn(name string, data []byte) error {
	path := filepath.Join(s.Dest, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create drop-in directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write drop-in %s: %w", path, err)
	}
	return nil
}

func (s *DirSink) Link(dir, unit string) error {
	linkDir := filepath.Join(s.Dest, dir)
	if err := os.MkdirAll(linkDir, 0755); err != nil {
		return fmt.Errorf("failed to create link directory %s: %w", linkDir, err)
	}
	link := filepath.Join(linkDir, unit)
	if err := os.Symlink(filepath.Join(s.Dest, unit), link); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", link, err)
	}
	return nil
}
