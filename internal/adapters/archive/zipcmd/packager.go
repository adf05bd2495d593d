package zipcmd

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCommand  = "zip"
	ChecksumSHA1    = "sha1"
	ChecksumSHA256  = "sha256"
	archiveSuffix   = ".zip"
	stdinEntryName  = "stdin"
	stagingDirName  = "input"
	workDirPattern  = "share-*"
	stagingFileMode = 0o600
)

var (
	ErrUnavailable         = errors.New("zip command unavailable")
	ErrUnsupportedChecksum = errors.New("unsupported checksum algorithm")
)

type runFunc func(ctx context.Context, dir string, name string, args ...string) (stdout string, stderr string, err error)

type Options struct {
	Command  string
	Checksum string
	// TempRoot is where work directories are created; empty means os.TempDir.
	TempRoot string
	Logger   logrus.FieldLogger
}

// Packager builds password protected archives with the zip command line tool.
type Packager struct {
	command  string
	checksum string
	tempRoot string
	logger   logrus.FieldLogger
	run      runFunc

	mu       sync.Mutex
	workDirs []string
}

var _ ports.Packager = (*Packager)(nil)

func NewPackager(opts Options) *Packager {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.Checksum == "" {
		opts.Checksum = ChecksumSHA1
	}
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		opts.Logger = logger
	}

	return &Packager{
		command:  opts.Command,
		checksum: strings.ToLower(opts.Checksum),
		tempRoot: opts.TempRoot,
		logger:   opts.Logger,
		run:      runCommand,
	}
}

func (p *Packager) Package(ctx context.Context, req ports.PackageRequest) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}
	if !req.Source.Valid() {
		return domain.Artifact{}, domain.ErrMissingInput
	}
	newHash, err := hashFor(p.checksum)
	if err != nil {
		return domain.Artifact{}, err
	}

	workDir, err := p.makeWorkDir()
	if err != nil {
		return domain.Artifact{}, err
	}

	sourcePath := req.Source.Path
	if req.Source.IsStdin() {
		sourcePath, err = stageStdin(workDir, req.Source)
		if err != nil {
			return domain.Artifact{}, err
		}
	}

	sourcePath, err = filepath.Abs(sourcePath)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("stat source %q: %w", sourcePath, err)
	}

	name := DownloadName(req)
	archivePath := filepath.Join(workDir, name)

	args := []string{"-q"}
	if req.Password != "" {
		args = append(args, "-P", req.Password)
	}
	if info.IsDir() {
		args = append(args, "-r")
	}
	args = append(args, archivePath, filepath.Base(sourcePath))

	p.logger.WithFields(logrus.Fields{
		"source":    sourcePath,
		"archive":   archivePath,
		"directory": info.IsDir(),
	}).Debug("running zip")

	_, stderr, err := p.run(ctx, filepath.Dir(sourcePath), p.command, args...)
	if err != nil {
		return domain.Artifact{}, formatError(sourcePath, err, stderr)
	}

	size, sum, err := digest(archivePath, newHash)
	if err != nil {
		return domain.Artifact{}, err
	}

	return domain.Artifact{
		Path:              archivePath,
		Name:              name,
		SizeBytes:         size,
		Checksum:          sum,
		ChecksumAlgorithm: p.checksum,
		Password:          req.Password,
	}, nil
}

// Cleanup removes every work directory created so far.
func (p *Packager) Cleanup() error {
	p.mu.Lock()
	dirs := p.workDirs
	p.workDirs = nil
	p.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("remove work directory %q: %w", dir, err))
		}
	}
	return errors.Join(errs...)
}

// DownloadName picks the forced name, else the source base name, else the
// fallback, and makes sure it ends in .zip.
func DownloadName(req ports.PackageRequest) string {
	name := strings.TrimSpace(req.Source.Name)
	if name == "" && strings.TrimSpace(req.Source.Path) != "" {
		name = filepath.Base(filepath.Clean(req.Source.Path))
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = req.FallbackName
	}
	if name == "" {
		name = "share"
	}
	name = filepath.Base(name)

	if !strings.HasSuffix(strings.ToLower(name), archiveSuffix) {
		name += archiveSuffix
	}
	return name
}

func (p *Packager) makeWorkDir() (string, error) {
	dir, err := os.MkdirTemp(p.tempRoot, workDirPattern)
	if err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}

	p.mu.Lock()
	p.workDirs = append(p.workDirs, dir)
	p.mu.Unlock()

	return dir, nil
}

func stageStdin(workDir string, source domain.Source) (string, error) {
	entry := stdinEntryName
	if name := strings.TrimSpace(source.Name); name != "" {
		entry = strings.TrimSuffix(filepath.Base(name), archiveSuffix)
	}

	stagingDir := filepath.Join(workDir, stagingDirName)
	if err := os.Mkdir(stagingDir, 0o700); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	path := filepath.Join(stagingDir, entry)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, stagingFileMode)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	if _, err := io.Copy(f, source.Stdin); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staging file: %w", err)
	}

	return path, nil
}

func hashFor(algorithm string) (func() hash.Hash, error) {
	switch algorithm {
	case ChecksumSHA1:
		return sha1.New, nil
	case ChecksumSHA256:
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChecksum, algorithm)
	}
}

func digest(path string, newHash func() hash.Hash) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	h := newHash()
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", fmt.Errorf("checksum archive: %w", err)
	}

	return size, hex.EncodeToString(h.Sum(nil)), nil
}

func runCommand(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", fmt.Errorf("%w: %s", ErrUnavailable, name)
		}
		return "", "", fmt.Errorf("locate %s command: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(source string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("zip %q: %w", source, err)
	}

	return fmt.Errorf("zip %q: %w: %s", source, err, stderr)
}
