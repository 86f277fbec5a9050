package auth

import (
	"errors"
	"testing"
	"time"

	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/model"
)

func TestHashSessionSecret(t *testing.T) {
	hash := HashSessionSecret("correct horse battery staple")
	if len(hash) != 64 {
		t.Errorf("hash length = %d, expected 64 hex characters", len(hash))
	}
	if hash != HashSessionSecret("correct horse battery staple") {
		t.Error("hashing the same secret twice produced different digests")
	}
	if hash == HashSessionSecret("correct horse battery stapl") {
		t.Error("different secrets produced the same digest")
	}
}

func TestAuthorize(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	future := now.Add(15 * time.Minute)
	past := now.Add(-time.Minute)

	accountSession := func() *model.BookingSession {
		return &model.BookingSession{
			OwnerType: model.OwnerTypeAccount,
			AccountID: "665f1f77bcf86cd799439011",
			Status:    model.SessionStatusActive,
			ExpiresAt: future,
		}
	}
	guestSession := func() *model.BookingSession {
		return &model.BookingSession{
			OwnerType:  model.OwnerTypeGuest,
			GuestID:    "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c",
			SecretHash: HashSessionSecret("the-raw-secret"),
			Status:     model.SessionStatusHolding,
			ExpiresAt:  future,
		}
	}

	tests := []struct {
		name         string
		session      *model.BookingSession
		identity     Identity
		expectedCode string
		description  string
	}{
		{
			name:         "account owner with matching claims",
			session:      accountSession(),
			identity:     Identity{AccountID: "665f1f77bcf86cd799439011"},
			expectedCode: "",
			description:  "matching account id passes the gate",
		},
		{
			name:         "account session without a token",
			session:      accountSession(),
			identity:     Identity{},
			expectedCode: apperrors.CodeUnauthorized,
			description:  "no presented identity is 401, not 403",
		},
		{
			name:         "account session with a different account",
			session:      accountSession(),
			identity:     Identity{AccountID: "665f1f77bcf86cd799439099"},
			expectedCode: apperrors.CodeForbidden,
			description:  "wrong account id is 403",
		},
		{
			name:         "guest owner with matching cookies",
			session:      guestSession(),
			identity:     Identity{GuestID: "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c", SessionSecret: "the-raw-secret"},
			expectedCode: "",
			description:  "guest id plus correct raw secret passes the gate",
		},
		{
			name:         "guest session missing the secret cookie",
			session:      guestSession(),
			identity:     Identity{GuestID: "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c"},
			expectedCode: apperrors.CodeUnauthorized,
			description:  "both cookies are required for guest sessions",
		},
		{
			name:         "guest session missing the guest cookie",
			session:      guestSession(),
			identity:     Identity{SessionSecret: "the-raw-secret"},
			expectedCode: apperrors.CodeUnauthorized,
			description:  "both cookies are required for guest sessions",
		},
		{
			name:         "guest session presented by a different guest",
			session:      guestSession(),
			identity:     Identity{GuestID: "00000000-0000-4000-8000-000000000000", SessionSecret: "the-raw-secret"},
			expectedCode: apperrors.CodeForbidden,
			description:  "guest id mismatch is 403",
		},
		{
			name:         "guest session with a wrong secret",
			session:      guestSession(),
			identity:     Identity{GuestID: "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c", SessionSecret: "guessed-secret"},
			expectedCode: apperrors.CodeForbidden,
			description:  "secret digest mismatch is 403",
		},
		{
			name: "expired session answers gone before ownership",
			session: func() *model.BookingSession {
				s := accountSession()
				s.ExpiresAt = past
				return s
			}(),
			identity:     Identity{},
			expectedCode: apperrors.CodeExpired,
			description:  "liveness is checked before credentials, even for anonymous callers",
		},
		{
			name: "confirmed session answers gone to its own owner",
			session: func() *model.BookingSession {
				s := guestSession()
				s.Status = model.SessionStatusConfirmed
				return s
			}(),
			identity:     Identity{GuestID: "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c", SessionSecret: "the-raw-secret"},
			expectedCode: apperrors.CodeExpired,
			description:  "terminal statuses are gone regardless of valid credentials",
		},
		{
			name: "cancelled session answers gone to a stranger",
			session: func() *model.BookingSession {
				s := accountSession()
				s.Status = model.SessionStatusCancelled
				return s
			}(),
			identity:     Identity{AccountID: "665f1f77bcf86cd799439099"},
			expectedCode: apperrors.CodeExpired,
			description:  "dead sessions leak nothing about ownership",
		},
		{
			name: "unrecognized owner type is rejected",
			session: &model.BookingSession{
				OwnerType: "ROBOT",
				Status:    model.SessionStatusActive,
				ExpiresAt: future,
			},
			identity:     Identity{AccountID: "665f1f77bcf86cd799439011"},
			expectedCode: apperrors.CodeForbidden,
			description:  "unknown owner types never pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.session, tt.identity, now)

			if tt.expectedCode == "" {
				if err != nil {
					t.Errorf("Authorize() = %v, expected nil: %s", err, tt.description)
				}
				return
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Authorize() = %v, expected an AppError: %s", err, tt.description)
			}
			if appErr.Code != tt.expectedCode {
				t.Errorf("Authorize() code = %s, expected %s: %s", appErr.Code, tt.expectedCode, tt.description)
			}
		})
	}
}

func TestAuthorizeExpiryBoundary(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	session := &model.BookingSession{
		OwnerType: model.OwnerTypeAccount,
		AccountID: "665f1f77bcf86cd799439011",
		Status:    model.SessionStatusActive,
		ExpiresAt: deadline,
	}
	identity := Identity{AccountID: "665f1f77bcf86cd799439011"}

	if err := Authorize(session, identity, deadline.Add(-time.Second)); err != nil {
		t.Errorf("one second before the deadline should pass, got %v", err)
	}
	if err := Authorize(session, identity, deadline); err == nil {
		t.Error("a session is expired exactly at its deadline")
	}
}
