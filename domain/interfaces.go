package domain

import (
	"context"
	"io"
)

// VideoRepository is the catalog record store for video metadata.
type VideoRepository interface {
	// Create inserts the record and fills in its ID and UploadedAt.
	Create(ctx context.Context, video *Video) error

	// FindByIDAndOwner returns the record only when it exists and belongs
	// to userID; any other case is ErrNotFound.
	FindByIDAndOwner(ctx context.Context, id, userID int64) (*Video, error)

	FindApproved(ctx context.Context) ([]CatalogEntry, error)
	FindByUser(ctx context.Context, userID int64) ([]Video, error)
	FindByStatus(ctx context.Context, status VideoStatus) ([]Video, error)
	UpdateStatus(ctx context.Context, id int64, status VideoStatus) error
	Delete(ctx context.Context, id int64) error

	// AllFilenames lists every artifact name referenced by a record,
	// regardless of status. Used by the startup reconciliation sweep.
	AllFilenames(ctx context.Context) ([]string, error)
}

// UserRepository stores accounts and their login history.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id int64, username, profileImage string) error
	RecordLogin(ctx context.Context, userID int64, ipAddress string) error
	LoginHistory(ctx context.Context, userID int64) ([]LoginEvent, error)
}

// FileStore manages the physical video artifacts under the uploads
// directory. Artifacts are written once and never rewritten.
type FileStore interface {
	// GenerateUniqueName derives a collision-free stored name from the
	// client-supplied filename.
	GenerateUniqueName(original string) string

	Save(name string, src io.Reader) error
	Exists(name string) bool
	Open(name string) (io.ReadSeekCloser, error)
	Size(name string) (int64, error)

	// Remove deletes the artifact, retrying briefly when another process
	// holds it open. A missing artifact is success; exhausted retries
	// against a held file surface ErrFileLocked.
	Remove(ctx context.Context, name string) error

	// List returns the names of all stored artifacts.
	List() ([]string, error)
}

// EventPublisher emits video lifecycle events for downstream consumers
// (moderation queue, notifications). Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event VideoEvent) error
}

// TokenVerifier checks an identity-provider token against the expected
// audience and returns the verified claims.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*IdentityClaims, error)
}

// TokenIssuer mints this service's own access tokens after a successful
// identity-provider login.
type TokenIssuer interface {
	Issue(user *User) (string, error)
}
