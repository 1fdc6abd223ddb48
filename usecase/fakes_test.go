package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/villagenews/video-service/domain"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}

// fakeVideoRepo is an in-memory catalog record store.
type fakeVideoRepo struct {
	videos    map[int64]*domain.Video
	nextID    int64
	createErr error
	deleteErr error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[int64]*domain.Video{}, nextID: 1}
}

func (r *fakeVideoRepo) Create(_ context.Context, v *domain.Video) error {
	if r.createErr != nil {
		return r.createErr
	}
	v.ID = r.nextID
	r.nextID++
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) FindByIDAndOwner(_ context.Context, id, userID int64) (*domain.Video, error) {
	v, ok := r.videos[id]
	if !ok || v.UserID != userID {
		return nil, fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) FindApproved(_ context.Context) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	for _, v := range r.videos {
		if v.Status == domain.VideoStatusApproved {
			entries = append(entries, domain.CatalogEntry{
				ID: v.ID, Title: v.Title, Description: v.Description, Filename: v.Filename,
			})
		}
	}
	return entries, nil
}

func (r *fakeVideoRepo) FindByUser(_ context.Context, userID int64) ([]domain.Video, error) {
	var videos []domain.Video
	for _, v := range r.videos {
		if v.UserID == userID {
			videos = append(videos, *v)
		}
	}
	return videos, nil
}

func (r *fakeVideoRepo) FindByStatus(_ context.Context, status domain.VideoStatus) ([]domain.Video, error) {
	var videos []domain.Video
	for _, v := range r.videos {
		if v.Status == status {
			videos = append(videos, *v)
		}
	}
	return videos, nil
}

func (r *fakeVideoRepo) UpdateStatus(_ context.Context, id int64, status domain.VideoStatus) error {
	v, ok := r.videos[id]
	if !ok {
		return fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	v.Status = status
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.videos[id]; !ok {
		return fmt.Errorf("video %d: %w", id, domain.ErrNotFound)
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) AllFilenames(_ context.Context) ([]string, error) {
	var names []string
	for _, v := range r.videos {
		names = append(names, v.Filename)
	}
	return names, nil
}

// fakeFileStore keeps artifacts in a map and can simulate a held file.
type fakeFileStore struct {
	artifacts map[string][]byte
	removeErr error
	saveErr   error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{artifacts: map[string][]byte{}}
}

func (s *fakeFileStore) GenerateUniqueName(original string) string {
	return uuid.NewString() + "_" + original
}

func (s *fakeFileStore) Save(name string, src io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	s.artifacts[name] = data
	return nil
}

func (s *fakeFileStore) Exists(name string) bool {
	_, ok := s.artifacts[name]
	return ok
}

func (s *fakeFileStore) Open(string) (io.ReadSeekCloser, error) {
	return nil, fmt.Errorf("not supported in fake")
}

func (s *fakeFileStore) Size(name string) (int64, error) {
	data, ok := s.artifacts[name]
	if !ok {
		return 0, fmt.Errorf("artifact %s: %w", name, domain.ErrNotFound)
	}
	return int64(len(data)), nil
}

func (s *fakeFileStore) Remove(_ context.Context, name string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.artifacts, name)
	return nil
}

func (s *fakeFileStore) List() ([]string, error) {
	var names []string
	for name := range s.artifacts {
		names = append(names, name)
	}
	return names, nil
}

// fakePublisher records published events and can fail on demand.
type fakePublisher struct {
	events []domain.VideoEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event domain.VideoEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
