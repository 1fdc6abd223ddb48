package domain

import "time"

// EventType identifies a video lifecycle transition.
type EventType string

const (
	EventVideoUploaded      EventType = "video.uploaded"
	EventVideoDeleted       EventType = "video.deleted"
	EventVideoStatusChanged EventType = "video.status_changed"
)

// VideoEvent is the message published to the broker when a video is
// uploaded, deleted, or moderated.
type VideoEvent struct {
	Type       EventType   `json:"type"`
	VideoID    int64       `json:"video_id"`
	UserID     int64       `json:"user_id"`
	Filename   string      `json:"filename,omitempty"`
	Status     VideoStatus `json:"status,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
