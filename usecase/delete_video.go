package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/villagenews/video-service/domain"
)

// DeleteVideoUseCase removes an artifact and its record together. The
// artifact goes first: a locked file aborts the whole operation with the
// record untouched, while a record-delete failure after the artifact is
// gone surfaces as an internal error and leaves a documented orphan record.
type DeleteVideoUseCase struct {
	videos domain.VideoRepository
	files  domain.FileStore
	events domain.EventPublisher
	log    *slog.Logger
}

func NewDeleteVideoUseCase(videos domain.VideoRepository, files domain.FileStore, events domain.EventPublisher, log *slog.Logger) *DeleteVideoUseCase {
	return &DeleteVideoUseCase{videos: videos, files: files, events: events, log: log}
}

func (uc *DeleteVideoUseCase) Execute(ctx context.Context, videoID, userID int64) error {
	// Single lookup by id and owner: a video owned by someone else must be
	// indistinguishable from a missing one.
	video, err := uc.videos.FindByIDAndOwner(ctx, videoID, userID)
	if err != nil {
		return err
	}

	if err := uc.files.Remove(ctx, video.Filename); err != nil {
		if errors.Is(err, domain.ErrFileLocked) {
			uc.log.Warn("artifact still in use, delete aborted",
				"video_id", videoID, "filename", video.Filename)
			return err
		}
		return fmt.Errorf("remove artifact: %w", err)
	}

	if err := uc.videos.Delete(ctx, videoID); err != nil {
		uc.log.Error("record delete failed after artifact removal, record orphaned",
			"video_id", videoID, "filename", video.Filename, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}

	uc.log.Info("video deleted", "video_id", videoID, "user_id", userID, "filename", video.Filename)
	if uc.events != nil {
		event := domain.VideoEvent{
			Type:       domain.EventVideoDeleted,
			VideoID:    videoID,
			UserID:     userID,
			Filename:   video.Filename,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.events.Publish(ctx, event); err != nil {
			uc.log.Warn("event publish failed", "type", event.Type, "video_id", videoID, "error", err)
		}
	}
	return nil
}
