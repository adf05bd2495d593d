package zipcmd

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeArchive = "PK\x05\x06fake-archive-bytes"

// writeArchiveArg plays the zip command by writing fixed bytes to the
// archive path, which sits right before the source argument.
func writeArchiveArg(t *testing.T, args []string) {
	t.Helper()
	require.GreaterOrEqual(t, len(args), 2)
	require.NoError(t, os.WriteFile(args[len(args)-2], []byte(fakeArchive), 0o600))
}

func newTestPackager(t *testing.T, run runFunc) *Packager {
	t.Helper()
	p := NewPackager(Options{TempRoot: t.TempDir()})
	p.run = run
	return p
}

func TestPackagerPackageFile(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "report.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf"), 0o600))

	var gotDir, gotName string
	var gotArgs []string
	p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		gotDir, gotName, gotArgs = dir, name, args
		writeArchiveArg(t, args)
		return "", "", nil
	})

	artifact, err := p.Package(context.Background(), ports.PackageRequest{
		Source:   domain.Source{Path: src},
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "zip", gotName)
	assert.Equal(t, srcDir, gotDir)
	require.Len(t, gotArgs, 5)
	assert.Equal(t, []string{"-q", "-P", "s3cret"}, gotArgs[:3])
	assert.Equal(t, "report.pdf", gotArgs[4])
	assert.NotContains(t, gotArgs, "-r")

	sum := sha1.Sum([]byte(fakeArchive))
	assert.Equal(t, "report.pdf.zip", artifact.Name)
	assert.Equal(t, gotArgs[3], artifact.Path)
	assert.Equal(t, int64(len(fakeArchive)), artifact.SizeBytes)
	assert.Equal(t, hex.EncodeToString(sum[:]), artifact.Checksum)
	assert.Equal(t, ChecksumSHA1, artifact.ChecksumAlgorithm)
	assert.Equal(t, "s3cret", artifact.Password)
}

func TestPackagerPackageDirectoryIsRecursive(t *testing.T) {
	t.Parallel()

	srcDir := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.Mkdir(srcDir, 0o700))

	var gotArgs []string
	p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		gotArgs = args
		writeArchiveArg(t, args)
		return "", "", nil
	})

	artifact, err := p.Package(context.Background(), ports.PackageRequest{
		Source:   domain.Source{Path: srcDir + string(filepath.Separator)},
		Password: "pw",
	})
	require.NoError(t, err)

	assert.Contains(t, gotArgs, "-r")
	assert.Equal(t, "photos", gotArgs[len(gotArgs)-1])
	assert.Equal(t, "photos.zip", artifact.Name)
}

func TestPackagerPackageStagesStdin(t *testing.T) {
	t.Parallel()

	var staged string
	p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		data, err := os.ReadFile(filepath.Join(dir, args[len(args)-1]))
		require.NoError(t, err)
		staged = string(data)
		assert.Equal(t, "notes.txt", args[len(args)-1])
		writeArchiveArg(t, args)
		return "", "", nil
	})

	artifact, err := p.Package(context.Background(), ports.PackageRequest{
		Source:       domain.Source{Stdin: strings.NewReader("piped content"), Name: "notes.txt"},
		Password:     "pw",
		FallbackName: "quiet-harbor",
	})
	require.NoError(t, err)

	assert.Equal(t, "piped content", staged)
	assert.Equal(t, "notes.txt.zip", artifact.Name)
}

func TestPackagerPackageStdinWithoutNameUsesFallback(t *testing.T) {
	t.Parallel()

	p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		assert.Equal(t, stdinEntryName, args[len(args)-1])
		writeArchiveArg(t, args)
		return "", "", nil
	})

	artifact, err := p.Package(context.Background(), ports.PackageRequest{
		Source:       domain.Source{Stdin: strings.NewReader("x")},
		FallbackName: "quiet-harbor",
	})
	require.NoError(t, err)
	assert.Equal(t, "quiet-harbor.zip", artifact.Name)
}

func TestPackagerPackageSHA256(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o600))

	p := NewPackager(Options{TempRoot: t.TempDir(), Checksum: "SHA256"})
	p.run = func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		writeArchiveArg(t, args)
		return "", "", nil
	}

	artifact, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: src}})
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(fakeArchive))
	assert.Equal(t, hex.EncodeToString(sum[:]), artifact.Checksum)
	assert.Equal(t, ChecksumSHA256, artifact.ChecksumAlgorithm)
}

func TestPackagerPackageErrors(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o600))

	t.Run("missing input", func(t *testing.T) {
		p := newTestPackager(t, nil)
		_, err := p.Package(context.Background(), ports.PackageRequest{})
		assert.ErrorIs(t, err, domain.ErrMissingInput)
	})

	t.Run("missing source", func(t *testing.T) {
		p := newTestPackager(t, nil)
		_, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: filepath.Join(t.TempDir(), "nope")}})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("zip failure carries stderr", func(t *testing.T) {
		p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
			return "", "zip error: Nothing to do!", errors.New("exit status 12")
		})
		_, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: src}})
		require.Error(t, err)
		assert.ErrorContains(t, err, "exit status 12")
		assert.ErrorContains(t, err, "Nothing to do!")
	})

	t.Run("zip unavailable", func(t *testing.T) {
		p := newTestPackager(t, nil)
		p.command = "share-test-no-such-zip"
		p.run = runCommand
		_, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: src}})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("unsupported checksum", func(t *testing.T) {
		p := NewPackager(Options{TempRoot: t.TempDir(), Checksum: "md5"})
		_, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: src}})
		assert.ErrorIs(t, err, ErrUnsupportedChecksum)
	})

	t.Run("cancelled context", func(t *testing.T) {
		p := newTestPackager(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Package(ctx, ports.PackageRequest{Source: domain.Source{Path: src}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPackagerCleanupRemovesWorkDirs(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o600))

	p := newTestPackager(t, func(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
		writeArchiveArg(t, args)
		return "", "", nil
	})

	artifact, err := p.Package(context.Background(), ports.PackageRequest{Source: domain.Source{Path: src}})
	require.NoError(t, err)
	require.FileExists(t, artifact.Path)

	require.NoError(t, p.Cleanup())
	assert.NoFileExists(t, artifact.Path)
	assert.NoDirExists(t, filepath.Dir(artifact.Path))
	require.NoError(t, p.Cleanup())
}

func TestDownloadName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  ports.PackageRequest
		want string
	}{
		{name: "forced name", req: ports.PackageRequest{Source: domain.Source{Path: "a.txt", Name: "report"}}, want: "report.zip"},
		{name: "forced name keeps zip suffix", req: ports.PackageRequest{Source: domain.Source{Path: "a.txt", Name: "report.ZIP"}}, want: "report.ZIP"},
		{name: "path base", req: ports.PackageRequest{Source: domain.Source{Path: "/home/me/photos/"}}, want: "photos.zip"},
		{name: "fallback token", req: ports.PackageRequest{Source: domain.Source{Stdin: strings.NewReader("")}, FallbackName: "quiet-harbor"}, want: "quiet-harbor.zip"},
		{name: "nothing at all", req: ports.PackageRequest{}, want: "share.zip"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DownloadName(tc.req))
		})
	}
}

func TestPackagerWithZipCommand(t *testing.T) {
	if _, err := exec.LookPath(DefaultCommand); err != nil {
		t.Skip("zip command not installed")
	}

	src := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(src, []byte(strings.Repeat("x", 1000)), 0o600))

	p := NewPackager(Options{TempRoot: t.TempDir()})
	t.Cleanup(func() { _ = p.Cleanup() })

	artifact, err := p.Package(context.Background(), ports.PackageRequest{
		Source:   domain.Source{Path: src},
		Password: "s3cret",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	sum := sha1.Sum(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), artifact.Checksum)
	assert.Equal(t, int64(len(data)), artifact.SizeBytes)

	reader, err := zip.OpenReader(artifact.Path)
	require.NoError(t, err)
	defer reader.Close()
	require.Len(t, reader.File, 1)
	assert.Equal(t, "data.bin", reader.File[0].Name)
	assert.NotZero(t, reader.File[0].Flags&0x1, "entry should be encrypted")
}
