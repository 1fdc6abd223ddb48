package usecase

import (
	"context"

	"github.com/villagenews/video-service/domain"
)

// ListVideosUseCase serves the public catalog and per-user listings.
type ListVideosUseCase struct {
	videos domain.VideoRepository
}

func NewListVideosUseCase(videos domain.VideoRepository) *ListVideosUseCase {
	return &ListVideosUseCase{videos: videos}
}

// Catalog returns all approved videos, newest first.
func (uc *ListVideosUseCase) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	return uc.videos.FindApproved(ctx)
}

// ByUser returns every video the user uploaded, regardless of status.
func (uc *ListVideosUseCase) ByUser(ctx context.Context, userID int64) ([]domain.Video, error) {
	return uc.videos.FindByUser(ctx, userID)
}
