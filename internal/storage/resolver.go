// Package storage is the filesystem collaborator: it decides where a buffer
// is saved and reads and writes line-oriented text through an afero.Fs.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zjrosen/vedit/internal/paths"
)

// Save target names accepted by NewResolver.
const (
	TargetOrigin     = "origin"
	TargetExecutable = "executable"
	TargetDir        = "dir"
)

// ErrUnknownTarget is returned for an unrecognized save target name.
var ErrUnknownTarget = errors.New("unknown save target")

// Resolver maps a buffer to the path it is saved to. origin is the path the
// buffer was loaded from, or "" for scratch buffers.
type Resolver interface {
	ResolveSavePath(name, origin string) (string, error)
}

// OriginResolver saves a buffer back where it came from. Scratch buffers go
// to BaseDir joined with the buffer name.
type OriginResolver struct {
	BaseDir string
}

// ResolveSavePath implements Resolver.
func (r OriginResolver) ResolveSavePath(name, origin string) (string, error) {
	if origin != "" {
		return origin, nil
	}
	return joinName(paths.ResolveBaseDir(r.BaseDir), name)
}

// ExecutableResolver saves every buffer next to the running binary.
type ExecutableResolver struct {
	// Dir overrides executable lookup. Nil uses paths.ExecutableDir.
	Dir func() (string, error)
}

// ResolveSavePath implements Resolver. origin is ignored.
func (r ExecutableResolver) ResolveSavePath(name, _ string) (string, error) {
	dirFn := r.Dir
	if dirFn == nil {
		dirFn = paths.ExecutableDir
	}
	dir, err := dirFn()
	if err != nil {
		return "", err
	}
	return joinName(dir, name)
}

// DirResolver saves every buffer into a fixed directory.
type DirResolver struct {
	Dir string
}

// ResolveSavePath implements Resolver. origin is ignored.
func (r DirResolver) ResolveSavePath(name, _ string) (string, error) {
	return joinName(paths.ResolveBaseDir(r.Dir), name)
}

// NewResolver builds the resolver for a configured target. dir is the base
// directory for the origin and dir targets.
func NewResolver(target, dir string) (Resolver, error) {
	switch target {
	case "", TargetOrigin:
		return OriginResolver{BaseDir: dir}, nil
	case TargetExecutable:
		return ExecutableResolver{}, nil
	case TargetDir:
		if dir == "" {
			return nil, fmt.Errorf("save target %q requires a directory", TargetDir)
		}
		return DirResolver{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// joinName joins a buffer name onto dir. Names are single path elements so
// a buffer cannot escape its directory.
func joinName(dir, name string) (string, error) {
	base := filepath.Base(name)
	if name == "" || base != name || base == "." || base == ".." {
		return "", fmt.Errorf("invalid buffer name %q", name)
	}
	return filepath.Join(dir, name), nil
}
