package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/villagenews/video-service/domain"
)

// allowedExtensions is the container-format allow-list for uploads.
var allowedExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
}

type UploadVideoInput struct {
	UserID      int64
	Title       string
	Description string
	Category    string
	Region      string
	Filename    string
	Content     io.Reader
}

// UploadVideoUseCase stores the artifact first and then inserts the
// metadata record with status "pending". A record insert failure leaves the
// artifact orphaned; the startup reconciliation sweep cleans those up.
type UploadVideoUseCase struct {
	videos domain.VideoRepository
	files  domain.FileStore
	events domain.EventPublisher
	log    *slog.Logger
}

func NewUploadVideoUseCase(videos domain.VideoRepository, files domain.FileStore, events domain.EventPublisher, log *slog.Logger) *UploadVideoUseCase {
	return &UploadVideoUseCase{videos: videos, files: files, events: events, log: log}
}

func (uc *UploadVideoUseCase) Execute(ctx context.Context, input UploadVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if input.Filename == "" || input.Content == nil {
		return nil, fmt.Errorf("%w: no file selected", domain.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(input.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}

	uniqueName := uc.files.GenerateUniqueName(input.Filename)
	if err := uc.files.Save(uniqueName, input.Content); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	video := &domain.Video{
		Title:       title,
		Description: input.Description,
		Category:    input.Category,
		Region:      input.Region,
		Filename:    uniqueName,
		UserID:      input.UserID,
		Status:      domain.VideoStatusPending,
	}
	if err := uc.videos.Create(ctx, video); err != nil {
		// The artifact is already on disk with no record pointing at it.
		// Reconciliation removes it on the next startup.
		uc.log.Warn("record insert failed after artifact write, artifact orphaned",
			"filename", uniqueName, "error", err)
		return nil, err
	}

	uc.log.Info("video uploaded", "video_id", video.ID, "user_id", video.UserID, "filename", uniqueName)
	uc.publish(ctx, domain.VideoEvent{
		Type:       domain.EventVideoUploaded,
		VideoID:    video.ID,
		UserID:     video.UserID,
		Filename:   uniqueName,
		Status:     video.Status,
		OccurredAt: time.Now().UTC(),
	})
	return video, nil
}

func (uc *UploadVideoUseCase) publish(ctx context.Context, event domain.VideoEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.log.Warn("event publish failed", "type", event.Type, "video_id", event.VideoID, "error", err)
	}
}
