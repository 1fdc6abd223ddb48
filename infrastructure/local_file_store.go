package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/villagenews/video-service/domain"
)

const tempPrefix = ".upload-"

// unsafeChars matches everything a stored filename may not contain.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalFileStore keeps video artifacts as flat files under a single
// directory. Every Open gets its own handle, so concurrent range reads of
// the same artifact do not interfere.
type LocalFileStore struct {
	dir      string
	attempts uint64
	backoff  time.Duration

	// removeFn is swapped out in tests to simulate a held file.
	removeFn func(string) error
}

func NewLocalFileStore(dir string) *LocalFileStore {
	return &LocalFileStore{
		dir:      dir,
		attempts: 3,
		backoff:  500 * time.Millisecond,
		removeFn: os.Remove,
	}
}

// GenerateUniqueName sanitizes the client-supplied filename and prefixes it
// with a random UUID, e.g. "clip.mp4" -> "{uuid}_clip.mp4". Collisions are
// ruled out by token entropy, not by checking the directory.
func (s *LocalFileStore) GenerateUniqueName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "upload"
	}
	return uuid.NewString() + "_" + base
}

// Save writes the artifact to a temp file in the uploads directory and
// renames it into place, so a concurrent reader never sees a partial file.
func (s *LocalFileStore) Save(name string, src io.Reader) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

func (s *LocalFileStore) Open(name string) (io.ReadSeekCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w", name, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalFileStore) Size(name string) (int64, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("artifact %s: %w", name, domain.ErrNotFound)
		}
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes the artifact. A file held open by another process is
// retried with a fixed backoff; after the final attempt the failure
// surfaces as domain.ErrFileLocked. Removing an absent artifact succeeds.
func (s *LocalFileStore) Remove(ctx context.Context, name string) error {
	path := filepath.Join(s.dir, name)

	backoff := retry.WithMaxRetries(s.attempts-1, retry.NewConstant(s.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.removeFn(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if isFileLocked(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if isFileLocked(err) {
		return fmt.Errorf("remove %s: %w", name, domain.ErrFileLocked)
	}
	return fmt.Errorf("remove %s: %w", name, err)
}

// List returns the stored artifact names, skipping in-flight temp files.
func (s *LocalFileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// isFileLocked reports whether err looks like the OS refusing to delete a
// file that another process still holds open.
func isFileLocked(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}

var _ domain.FileStore = (*LocalFileStore)(nil)
