package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResolver(t *testing.T) {
	tests := []struct {
		target string
		dir    string
		want   Resolver
	}{
		{"", "", OriginResolver{}},
		{TargetOrigin, "/base", OriginResolver{BaseDir: "/base"}},
		{TargetExecutable, "/ignored", ExecutableResolver{}},
		{TargetDir, "/out", DirResolver{Dir: "/out"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := NewResolver(tt.target, tt.dir)
			require.NoError(t, err)
			require.IsType(t, tt.want, got)
		})
	}
}

func TestNewResolver_Errors(t *testing.T) {
	_, err := NewResolver("cloud", "")
	require.ErrorIs(t, err, ErrUnknownTarget)
	require.ErrorContains(t, err, `"cloud"`)

	_, err = NewResolver(TargetDir, "")
	require.ErrorContains(t, err, "requires a directory")
}

func TestOriginResolver(t *testing.T) {
	r := OriginResolver{BaseDir: "/base"}

	got, err := r.ResolveSavePath("notes.txt", "/src/notes.txt")
	require.NoError(t, err)
	require.Equal(t, "/src/notes.txt", got)

	got, err = r.ResolveSavePath("file1.txt", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/base", "file1.txt"), got)

	got, err = OriginResolver{}.ResolveSavePath("file1.txt", "")
	require.NoError(t, err)
	require.Equal(t, "file1.txt", got)
}

func TestExecutableResolver(t *testing.T) {
	r := ExecutableResolver{Dir: func() (string, error) { return "/opt/vedit", nil }}

	got, err := r.ResolveSavePath("file2.txt", "/elsewhere/file2.txt")

	require.NoError(t, err)
	require.Equal(t, filepath.Join("/opt/vedit", "file2.txt"), got)
}

func TestExecutableResolver_DirError(t *testing.T) {
	boom := errors.New("boom")
	r := ExecutableResolver{Dir: func() (string, error) { return "", boom }}

	_, err := r.ResolveSavePath("a", "")

	require.ErrorIs(t, err, boom)
}

func TestDirResolver(t *testing.T) {
	got, err := DirResolver{Dir: "/out/"}.ResolveSavePath("a.txt", "/src/a.txt")

	require.NoError(t, err)
	require.Equal(t, filepath.Join("/out", "a.txt"), got)
}

func TestResolve_RejectsPathNames(t *testing.T) {
	for _, name := range []string{"", ".", "..", "../x", "a/b", "/abs"} {
		_, err := DirResolver{Dir: "/out"}.ResolveSavePath(name, "")
		require.Error(t, err, "name %q", name)
	}
}
