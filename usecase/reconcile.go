package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/villagenews/video-service/domain"
)

// ReconcileUseCase removes orphaned artifacts: files in the uploads
// directory that no record references. Orphans appear when a record insert
// fails after the artifact write, so the sweep runs once at startup.
type ReconcileUseCase struct {
	videos domain.VideoRepository
	files  domain.FileStore
	log    *slog.Logger
}

func NewReconcileUseCase(videos domain.VideoRepository, files domain.FileStore, log *slog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{videos: videos, files: files, log: log}
}

// Execute returns the number of orphaned artifacts removed.
func (uc *ReconcileUseCase) Execute(ctx context.Context) (int, error) {
	stored, err := uc.files.List()
	if err != nil {
		return 0, fmt.Errorf("list artifacts: %w", err)
	}
	recorded, err := uc.videos.AllFilenames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recorded filenames: %w", err)
	}

	known := make(map[string]struct{}, len(recorded))
	for _, name := range recorded {
		known[name] = struct{}{}
	}

	removed := 0
	for _, name := range stored {
		if _, ok := known[name]; ok {
			continue
		}
		if err := uc.files.Remove(ctx, name); err != nil {
			uc.log.Warn("could not remove orphaned artifact", "filename", name, "error", err)
			continue
		}
		uc.log.Info("removed orphaned artifact", "filename", name)
		removed++
	}
	return removed, nil
}
