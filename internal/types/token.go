package types

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims carries the authenticated identity extracted from a JWT.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	TokenID   string
	ExpiresAt time.Time
}
