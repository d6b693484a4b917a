package sessionModel

import (
	"context"
	"time"
)

// Session owns exactly one similarity index and one conversation log.
// Replacing the artifact rebuilds the index wholesale.
type Session struct {
	Id           string    `json:"id"`
	Username     string    `json:"username"`
	ArtifactId   string    `json:"artifact_id,omitempty"`
	ArtifactName string    `json:"artifact_name,omitempty"`
	DataContext  string    `json:"data_context,omitempty"` //tabular-summary or document description text
	ChunkCount   int       `json:"chunk_count"`
	IndexedAt    time.Time `json:"indexed_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SessionStore interface {
	GetSession(ctx context.Context, id string) (Session, bool)
	SaveSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, id string)
}

// Profile holds per-user settings, most importantly the completion
// backend credential the orchestrator needs.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

type ProfileStore interface {
	GetProfile(ctx context.Context, username string) (Profile, bool)
	SaveProfile(ctx context.Context, profile Profile) error
}
