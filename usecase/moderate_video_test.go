package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagenews/video-service/domain"
)

func TestModerate_Approve(t *testing.T) {
	repo := newFakeVideoRepo()
	pub := &fakePublisher{}
	uc := NewModerateVideoUseCase(repo, pub, testLogger(t))

	v := &domain.Video{Title: "Test", Filename: "a.mp4", UserID: 1, Status: domain.VideoStatusPending}
	require.NoError(t, repo.Create(context.Background(), v))

	require.NoError(t, uc.SetStatus(context.Background(), v.ID, domain.VideoStatusApproved))

	approved, err := uc.ListByStatus(context.Background(), domain.VideoStatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventVideoStatusChanged, pub.events[0].Type)
}

func TestModerate_RejectsInvalidStatus(t *testing.T) {
	uc := NewModerateVideoUseCase(newFakeVideoRepo(), nil, testLogger(t))

	err := uc.SetStatus(context.Background(), 1, domain.VideoStatus("published"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Moderation may not reset a video back to pending.
	err = uc.SetStatus(context.Background(), 1, domain.VideoStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListByStatus(context.Background(), domain.VideoStatus("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModerate_UnknownVideo(t *testing.T) {
	uc := NewModerateVideoUseCase(newFakeVideoRepo(), nil, testLogger(t))
	err := uc.SetStatus(context.Background(), 42, domain.VideoStatusApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
