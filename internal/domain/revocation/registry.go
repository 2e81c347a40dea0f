package revocation

import (
	"context"
	"time"
)

// Outcome reports what a revoke call observed.
type Outcome int

const (
	// OutcomeInserted means this call created the registry entry.
	OutcomeInserted Outcome = iota
	// OutcomeAlreadyRevoked means the jti was present before this call.
	// Duplicate submissions are a no-op, not an error.
	OutcomeAlreadyRevoked
)

func (o Outcome) String() string {
	if o == OutcomeAlreadyRevoked {
		return "already_revoked"
	}
	return "inserted"
}

// Registry is the durable store of revoked token identifiers.
//
// Revoke must be safe under concurrent duplicate submissions: idempotency
// is enforced by a storage-level uniqueness constraint on jti, not by
// coordination. IsRevoked reads durable storage directly on every call —
// no cache sits on this path, because a revocation must be visible to
// every consumer on the next read with no staleness window.
type Registry interface {
	Revoke(ctx context.Context, entry *RevokedToken) (Outcome, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	GetByJTI(ctx context.Context, jti string) (*RevokedToken, error)
	// PurgeExpired deletes entries whose token expiry passed before the
	// cutoff; an expired token is untrusted regardless of revocation state.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
