package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/log"
)

// DefaultFileMode is used when saving a file that does not exist yet.
const DefaultFileMode fs.FileMode = 0o644

// Store reads and writes buffers as LF-terminated UTF-8 lines.
type Store struct {
	fs afero.Fs
}

// NewStore returns a store over fsys. A nil fsys uses the OS filesystem.
func NewStore(fsys afero.Fs) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{fs: fsys}
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs { return s.fs }

// WriteLines writes each line followed by "\n". An existing file keeps its
// permissions. Missing parent directories are an error.
func (s *Store) WriteLines(path string, lines []string) error {
	perm := DefaultFileMode
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}

	if err := afero.WriteFile(s.fs, path, []byte(sb.String()), perm); err != nil {
		log.ErrorErr(log.CatStorage, "write failed", err, "path", path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info(log.CatStorage, "wrote file", "path", path, "lines", len(lines))
	return nil
}

// ReadLines returns the lines of path. Both "\n" and "\r\n" terminate a line
// and a final terminator does not produce an extra empty line.
func (s *Store) ReadLines(path string) ([]string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

// Load opens path as a buffer named name. A missing file yields an empty
// buffer that saves back to path.
func (s *Store) Load(name, path string) (*buffer.Buffer, error) {
	lines, err := s.ReadLines(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug(log.CatStorage, "new file", "path", path)
		return buffer.NewFromFile(name, path, nil), nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatStorage, "loaded file", "path", path, "lines", len(lines))
	return buffer.NewFromFile(name, path, lines), nil
}
