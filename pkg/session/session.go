// Package session provides storage for interactive play sessions.
//
// A play session records where a reader currently is in a story. The graph
// itself is never stored - only the current node id - so a session can be
// rebuilt against the loaded tree on every request.
//
// Two [Store] backends are provided:
//   - memory: in-process storage for a single server instance
//   - redis: shared storage for multi-instance deployments, with expiry
//     delegated to Redis TTLs
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the default play-session duration.
const DefaultTTL = 24 * time.Hour

// State is one reader's position in a story.
type State struct {
	ID        string    `json:"id"`
	NodeID    string    `json:"node_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *State) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch pushes the expiry ttl into the future from now. Callers use it to
// keep active sessions alive, making ttl an idle timeout rather than an
// absolute lifetime.
func (s *State) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// New creates a session positioned at the given node with a fresh id.
func New(nodeID string, ttl time.Duration) *State {
	now := time.Now()
	return &State{
		ID:        uuid.NewString(),
		NodeID:    nodeID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*State, error)

	// Set stores a session.
	Set(ctx context.Context, state *State) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op where the backend
	// expires keys itself).
	Cleanup(ctx context.Context) error
}
