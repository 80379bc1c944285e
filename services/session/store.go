// Package session persists per-number conversation state between webhook
// deliveries. A session that sees no activity for the configured TTL expires
// and the next message transparently starts a new one.
package session

import (
	"context"

	"github.com/martinianod/chedoparti/models"
)

// Store loads and saves the conversational cursor for a WhatsApp number.
//
// Load returns a fresh START session on a miss or after expiry; only
// transport-level failures surface as errors. Save overwrites unconditionally
// and resets the TTL, so concurrent turns for the same number resolve as
// last-writer-wins.
type Store interface {
	Load(ctx context.Context, waID string) (*models.Session, error)
	Save(ctx context.Context, waID string, session *models.Session) error
	Delete(ctx context.Context, waID string) error
}
