package buildno

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/marco79423/bumpbuild/pkg/model"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "version.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readSource(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestUpdateFile_Modes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "minor", opts: Options{}, want: `"3.8"`},
		{name: "major", opts: Options{UpdateMajor: true}, want: `"4.8"`},
		{name: "upset", opts: Options{UpdateMajor: true, ResetMinor: true}, want: `"4.0"`},
		{name: "atomic", opts: Options{Atomic: true}, want: `"3.8"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, "#pragma once\n#define BUILD_NO = \"3.7\"\nint x;\n")

			result, err := UpdateFile(context.Background(), path, tt.opts)
			require.NoError(t, err)
			require.Equal(t, "#pragma once\n#define BUILD_NO = "+tt.want+"\nint x;\n", readSource(t, path))
			require.Equal(t, 2, result.Line)
			require.Equal(t, model.Version{Major: 3, Minor: 7}, result.OldVersion)
		})
	}
}

func TestUpdateFile_KeepsTrailingText(t *testing.T) {
	path := writeSource(t, "BUILD_NO=\"1.2\" # generated\r\nnext\n")

	_, err := UpdateFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Equal(t, "BUILD_NO = \"1.3\" # generated\r\nnext\n", readSource(t, path))
}

func TestUpdateFile_AddsNewlineOnLastLine(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"0.9\"")

	_, err := UpdateFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Equal(t, "BUILD_NO = \"0.10\"\n", readSource(t, path))
}

func TestUpdateFile_OnlyFirstMatch(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"1.1\"\nBUILD_NO = \"2.2\"\n")

	_, err := UpdateFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Equal(t, "BUILD_NO = \"1.2\"\nBUILD_NO = \"2.2\"\n", readSource(t, path))
}

func TestUpdateFile_MismatchDoesNotBlockLaterLine(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"x.y\"\nBUILD_NO = \"5.1\"\nBUILD_NO = \"6.1\"\n")

	result, err := UpdateFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Line)
	require.Equal(t, "BUILD_NO = \"x.y\"\nBUILD_NO = \"5.2\"\nBUILD_NO = \"6.1\"\n", readSource(t, path))
}

func TestUpdateFile_NoMarker(t *testing.T) {
	content := "int main() {}\nVERSION = \"1.0\"\n"
	path := writeSource(t, content)
	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = UpdateFile(context.Background(), path, Options{})
	require.True(t, errors.Is(err, ErrMarkerNotFound))
	require.Equal(t, content, readSource(t, path))

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}

func TestUpdateFile_MalformedValue(t *testing.T) {
	for _, content := range []string{
		"BUILD_NO = \"abc\"\n",
		"BUILD_NO = \"1\"\n",
		"BUILD_NO = 1.2\n",
		"BUILD_NO\n",
	} {
		path := writeSource(t, content)

		_, err := UpdateFile(context.Background(), path, Options{})
		require.True(t, errors.Is(err, ErrMarkerNotFound), content)
		require.Equal(t, content, readSource(t, path))
	}
}

func TestUpdateFile_IncrementOverflow(t *testing.T) {
	maxInt := strconv.Itoa(math.MaxInt)
	tests := []struct {
		name    string
		content string
		opts    Options
	}{
		{name: "minor", content: "BUILD_NO = \"1." + maxInt + "\"\n", opts: Options{}},
		{name: "major", content: "BUILD_NO = \"" + maxInt + ".1\"\n", opts: Options{UpdateMajor: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.content)

			_, err := UpdateFile(context.Background(), path, tt.opts)
			require.True(t, errors.Is(err, ErrMarkerNotFound))
			require.Equal(t, tt.content, readSource(t, path))
		})
	}
}

func TestUpdateFile_ResetMinorAtMaxInt(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"1." + strconv.Itoa(math.MaxInt) + "\"\n")

	_, err := UpdateFile(context.Background(), path, Options{UpdateMajor: true, ResetMinor: true})
	require.NoError(t, err)
	require.Equal(t, "BUILD_NO = \"2.0\"\n", readSource(t, path))
}

func TestUpdateFile_AtomicKeepsMode(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"1.1\"\n")
	require.NoError(t, os.Chmod(path, 0600))

	_, err := UpdateFile(context.Background(), path, Options{Atomic: true})
	require.NoError(t, err)
	require.Equal(t, "BUILD_NO = \"1.2\"\n", readSource(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUpdateFile_SourceNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.h")

	_, err := UpdateFile(context.Background(), path, Options{})
	require.True(t, errors.Is(err, ErrSourceNotFound))
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestUpdateFile_WriteFailed(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := writeSource(t, "BUILD_NO = \"1.1\"\n")
	require.NoError(t, os.Chmod(path, 0444))

	_, err := UpdateFile(context.Background(), path, Options{})
	require.True(t, errors.Is(err, ErrWriteFailed))
	require.Equal(t, "BUILD_NO = \"1.1\"\n", readSource(t, path))
}

func TestUpdate(t *testing.T) {
	path := writeSource(t, "BUILD_NO = \"3.7\"\n")
	require.True(t, Update(path, false, false))
	require.Equal(t, "BUILD_NO = \"3.8\"\n", readSource(t, path))

	require.False(t, Update(filepath.Join(t.TempDir(), "missing.h"), false, false))
	require.False(t, Update(writeSource(t, "nothing here\n"), true, true))
}
