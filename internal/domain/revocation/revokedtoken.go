package revocation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RevokedToken records one token identifier that must be treated as
// invalid regardless of signature or expiry validity. Entries are
// immutable once written and may be garbage-collected after the token's
// own expiry plus a safety margin.
type RevokedToken struct {
	jti       string
	jtiHash   string
	subjectID string
	clientID  string
	tokenType string
	expiresAt time.Time
	revokedAt time.Time
	reason    string
	revokedBy string
}

func NewRevokedToken(jti, subjectID, clientID, tokenType string, expiresAt time.Time, reason, revokedBy string) (*RevokedToken, error) {
	if jti == "" {
		return nil, fmt.Errorf("jti is required")
	}
	return &RevokedToken{
		jti:       jti,
		jtiHash:   HashJTI(jti),
		subjectID: subjectID,
		clientID:  clientID,
		tokenType: tokenType,
		expiresAt: expiresAt.UTC(),
		revokedAt: time.Now().UTC(),
		reason:    reason,
		revokedBy: revokedBy,
	}, nil
}

func ReconstructRevokedToken(jti, jtiHash, subjectID, clientID, tokenType string, expiresAt, revokedAt time.Time, reason, revokedBy string) *RevokedToken {
	return &RevokedToken{
		jti:       jti,
		jtiHash:   jtiHash,
		subjectID: subjectID,
		clientID:  clientID,
		tokenType: tokenType,
		expiresAt: expiresAt,
		revokedAt: revokedAt,
		reason:    reason,
		revokedBy: revokedBy,
	}
}

// HashJTI returns the hex sha256 digest of a token identifier. The hash
// column allows indexing long identifiers uniformly.
func HashJTI(jti string) string {
	sum := sha256.Sum256([]byte(jti))
	return hex.EncodeToString(sum[:])
}

func (r *RevokedToken) JTI() string          { return r.jti }
func (r *RevokedToken) JTIHash() string      { return r.jtiHash }
func (r *RevokedToken) SubjectID() string    { return r.subjectID }
func (r *RevokedToken) ClientID() string     { return r.clientID }
func (r *RevokedToken) TokenType() string    { return r.tokenType }
func (r *RevokedToken) ExpiresAt() time.Time { return r.expiresAt }
func (r *RevokedToken) RevokedAt() time.Time { return r.revokedAt }
func (r *RevokedToken) Reason() string       { return r.reason }
func (r *RevokedToken) RevokedBy() string    { return r.revokedBy }
