package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/villagenews/video-service/domain"
)

// ModerateVideoUseCase lets admins review pending uploads.
type ModerateVideoUseCase struct {
	videos domain.VideoRepository
	events domain.EventPublisher
	log    *slog.Logger
}

func NewModerateVideoUseCase(videos domain.VideoRepository, events domain.EventPublisher, log *slog.Logger) *ModerateVideoUseCase {
	return &ModerateVideoUseCase{videos: videos, events: events, log: log}
}

// ListByStatus returns videos in the given moderation state.
func (uc *ModerateVideoUseCase) ListByStatus(ctx context.Context, status domain.VideoStatus) ([]domain.Video, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return uc.videos.FindByStatus(ctx, status)
}

// SetStatus approves or rejects a video.
func (uc *ModerateVideoUseCase) SetStatus(ctx context.Context, videoID int64, status domain.VideoStatus) error {
	if status != domain.VideoStatusApproved && status != domain.VideoStatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", domain.ErrInvalidInput)
	}
	if err := uc.videos.UpdateStatus(ctx, videoID, status); err != nil {
		return err
	}

	uc.log.Info("video moderated", "video_id", videoID, "status", status)
	if uc.events != nil {
		event := domain.VideoEvent{
			Type:       domain.EventVideoStatusChanged,
			VideoID:    videoID,
			Status:     status,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.events.Publish(ctx, event); err != nil {
			uc.log.Warn("event publish failed", "type", event.Type, "video_id", videoID, "error", err)
		}
	}
	return nil
}
