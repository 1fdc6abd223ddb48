package infrastructure

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagenews/video-service/domain"
)

func newTestStore(t *testing.T) *LocalFileStore {
	t.Helper()
	s := NewLocalFileStore(t.TempDir())
	s.backoff = time.Millisecond
	return s
}

var uniqueNamePattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}_clip\.mp4$`)

func TestGenerateUniqueName(t *testing.T) {
	s := newTestStore(t)

	name := s.GenerateUniqueName("clip.mp4")
	assert.Regexp(t, uniqueNamePattern, name)

	assert.NotEqual(t, name, s.GenerateUniqueName("clip.mp4"))
}

func TestGenerateUniqueName_Sanitizes(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		original string
		suffix   string
	}{
		{"../../etc/passwd", "_passwd"},
		{"..\\..\\evil.mp4", "_evil.mp4"},
		{"my movie (final).mp4", "_my_movie_final_.mp4"},
		{"....", "_upload"},
		{"", "_upload"},
	}
	for _, tt := range tests {
		name := s.GenerateUniqueName(tt.original)
		assert.Truef(t, strings.HasSuffix(name, tt.suffix),
			"GenerateUniqueName(%q) = %q, want suffix %q", tt.original, name, tt.suffix)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, "..")
	}
}

func TestSaveOpenSize(t *testing.T) {
	s := newTestStore(t)
	content := strings.Repeat("x", 4096)

	require.NoError(t, s.Save("a.mp4", strings.NewReader(content)))
	assert.True(t, s.Exists("a.mp4"))

	size, err := s.Size("a.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), size)

	f, err := s.Open("a.mp4")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	s := NewLocalFileStore(dir)

	require.NoError(t, s.Save("a.mp4", strings.NewReader("data")))
	assert.True(t, s.Exists("a.mp4"))
}

func TestSave_LeavesNoTempFileBehind(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a.mp4", strings.NewReader("data")))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4"}, names)
}

func TestSizeAndOpen_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Size("nope.mp4")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Open("nope.mp4")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a.mp4", strings.NewReader("data")))

	require.NoError(t, s.Remove(context.Background(), "a.mp4"))
	assert.False(t, s.Exists("a.mp4"))
}

func TestRemove_MissingIsSuccess(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Remove(context.Background(), "never-existed.mp4"))
}

func TestRemove_LockedExhaustsRetries(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.removeFn = func(string) error {
		calls++
		return syscall.EBUSY
	}

	err := s.Remove(context.Background(), "held.mp4")
	assert.ErrorIs(t, err, domain.ErrFileLocked)
	assert.Equal(t, 3, calls, "expected exactly 3 attempts")
}

func TestRemove_LockClearsMidway(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a.mp4", strings.NewReader("data")))

	calls := 0
	s.removeFn = func(path string) error {
		calls++
		if calls < 3 {
			return syscall.EBUSY
		}
		return os.Remove(path)
	}

	require.NoError(t, s.Remove(context.Background(), "a.mp4"))
	assert.Equal(t, 3, calls)
	assert.False(t, s.Exists("a.mp4"))
}

func TestRemove_NonLockErrorNotRetried(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("disk exploded")
	calls := 0
	s.removeFn = func(string) error {
		calls++
		return boom
	}

	err := s.Remove(context.Background(), "a.mp4")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrFileLocked)
	assert.Equal(t, 1, calls)
}

func TestList_SkipsTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("a.mp4", strings.NewReader("data")))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, tempPrefix+"123"), []byte("partial"), 0o644))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4"}, names)
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	s := NewLocalFileStore(filepath.Join(t.TempDir(), "does-not-exist"))
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
