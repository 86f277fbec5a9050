package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/model"
)

// Identity carries whatever the transport layer extracted about the caller:
// account claims from the bearer token, guest id and raw session secret from
// cookies. Zero fields mean the caller presented nothing for that channel.
type Identity struct {
	AccountID     string
	GuestID       string
	SessionSecret string
}

// HashSessionSecret is the storage form of a session secret. The raw secret
// leaves the server exactly once, in the creation response cookie.
func HashSessionSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Authorize decides whether the caller may act on the session. It is a pure
// check over the loaded session and the presented identity; it runs before
// every session read and mutation.
//
// Liveness is checked first: a terminal or expired session answers 410
// regardless of who is asking, so callers learn nothing about ownership of
// dead sessions. Then ownership: missing credentials are 401, wrong ones 403.
func Authorize(session *model.BookingSession, identity Identity, now time.Time) error {
	if session.Terminal() || session.Expired(now) {
		return apperrors.Expired("Booking session is no longer active")
	}

	switch session.OwnerType {
	case model.OwnerTypeAccount:
		if identity.AccountID == "" {
			return apperrors.Unauthorized("Sign-in required for this booking session")
		}
		if identity.AccountID != session.AccountID {
			return apperrors.Forbidden("Booking session belongs to a different account")
		}

	case model.OwnerTypeGuest:
		if identity.GuestID == "" || identity.SessionSecret == "" {
			return apperrors.Unauthorized("Missing booking session credentials")
		}
		if identity.GuestID != session.GuestID {
			return apperrors.Forbidden("Booking session belongs to a different guest")
		}
		presented := HashSessionSecret(identity.SessionSecret)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(session.SecretHash)) != 1 {
			return apperrors.Forbidden("Invalid booking session credentials")
		}

	default:
		return apperrors.Forbidden("Unrecognized booking session owner")
	}

	return nil
}
