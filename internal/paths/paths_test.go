package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBaseDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty is cwd", "", "."},
		{"cleaned", "a/b/../c/", filepath.Join("a", "c")},
		{"absolute", "/tmp/x/", "/tmp/x"},
		{"tilde", "~", home},
		{"tilde subdir", "~/notes", filepath.Join(home, "notes")},
		{"tilde user untouched", "~bob/x", filepath.Join("~bob", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveBaseDir(tt.in))
		})
	}
}

func TestExecutableDir(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "vedit")
	require.NoError(t, os.WriteFile(bin, nil, 0o600))

	orig := executable
	t.Cleanup(func() { executable = orig })
	executable = func() (string, error) { return bin, nil }

	got, err := ExecutableDir()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExecutableDir_FollowsSymlink(t *testing.T) {
	target := t.TempDir()
	link := t.TempDir()
	bin := filepath.Join(target, "vedit")
	require.NoError(t, os.WriteFile(bin, nil, 0o600))
	require.NoError(t, os.Symlink(bin, filepath.Join(link, "vedit")))

	orig := executable
	t.Cleanup(func() { executable = orig })
	executable = func() (string, error) { return filepath.Join(link, "vedit"), nil }

	got, err := ExecutableDir()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExecutableDir_Error(t *testing.T) {
	orig := executable
	t.Cleanup(func() { executable = orig })
	executable = func() (string, error) { return "", errors.New("no exe") }

	_, err := ExecutableDir()
	require.ErrorContains(t, err, "locating executable")
}

func TestConfigPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.Equal(t, filepath.Join(".vedit", "config.yaml"), LocalConfigPath())
	require.Equal(t, filepath.Join(home, ".config", "vedit", "config.yaml"), UserConfigPath())
}
