package domain

import "time"

// VideoStatus is the moderation state of an uploaded video.
type VideoStatus string

const (
	VideoStatusPending  VideoStatus = "pending"
	VideoStatusApproved VideoStatus = "approved"
	VideoStatusRejected VideoStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusPending, VideoStatusApproved, VideoStatusRejected:
		return true
	}
	return false
}

// Video is the metadata record for one stored artifact. Filename always
// refers to the unique on-disk name owned by this record.
type Video struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category,omitempty"`
	Region      string      `json:"region,omitempty"`
	Filename    string      `json:"filename"`
	UserID      int64       `json:"-"`
	Status      VideoStatus `json:"status"`
	UploadedAt  time.Time   `json:"uploaded_at"`
}

// CatalogEntry is an approved video joined with its uploader's username,
// as shown on the public home page.
type CatalogEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Uploader    string `json:"uploader"`
}

// User is an account created or refreshed on each identity-provider login.
type User struct {
	ID           int64
	Username     string
	Email        string
	ProfileImage string
	IsAdmin      bool
	CreatedAt    time.Time
}

// LoginEvent is one row of a user's login history.
type LoginEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	IPAddress string    `json:"ip_address"`
	LoginAt   time.Time `json:"login_timestamp"`
}

// IdentityClaims are the verified claims returned by the external identity
// provider for a valid ID token.
type IdentityClaims struct {
	Email        string
	Name         string
	ProfileImage string
}
