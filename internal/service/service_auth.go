// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/crypto"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/store"
	"github.com/dkorchagin/vaultguard/models"
)

// authService is the concrete implementation of [AuthService]. It owns the
// verifier pepper and the lockout policy, and composes the crypto package
// with a UserRepository and a SessionStore.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction. The read-modify-write of the failure counter is not
// atomic across concurrent logins for the same account — each attempt
// re-reads the latest stored counter before writing, which keeps the race
// from ever defeating lockout entirely (the worst case is locking one
// attempt early or late).
type authService struct {
	// userRepository is the data-access layer used to create and mutate users.
	userRepository store.UserRepository

	// sessions mints and revokes the opaque bearer tokens issued on success.
	sessions SessionStore

	// pepper is the process-wide verifier secret. Never logged, never
	// returned to any client.
	pepper []byte

	// lockout is the fixed failure-counting policy applied at login.
	lockout LockoutPolicy

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger

	// now is injectable so tests can drive lockout expiry.
	now func() time.Time
}

// NewAuthService constructs an [AuthService] wired to the given repository
// and session store, with the pepper taken from cfg. Construction fails on
// an empty pepper: running without one would silently persist unpeppered
// verifiers.
func NewAuthService(userRepository store.UserRepository, sessions SessionStore, cfg config.App, logger *logger.Logger) (AuthService, error) {
	if cfg.VerifierPepper == "" {
		return nil, ErrEmptyPepper
	}

	return &authService{
		userRepository: userRepository,
		sessions:       sessions,
		pepper:         []byte(cfg.VerifierPepper),
		lockout:        DefaultLockoutPolicy(),
		logger:         logger,
		now:            time.Now,
	}, nil
}

// NormalizeEmail lower-cases and trims an email so that uniqueness and
// lookups are case-insensitive everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account from the client-derived credential set.
//
// The stored verifier is ComputeVerifier(AuthSecret, pepper); the raw
// AuthSecret is never persisted. Email uniqueness — including the race of
// two concurrent registrations — is delegated to the storage layer, which
// reports [store.ErrEmailAlreadyExists].
func (a *authService) Register(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	log := logger.FromContext(ctx)

	if err := validateCredentials(creds); err != nil {
		log.Error().Err(err).Msg("invalid registration data provided")
		return models.SessionGrant{}, err
	}

	user := models.User{
		Email:        NormalizeEmail(creds.Email),
		AuthVerifier: crypto.ComputeVerifier(creds.AuthSecret, a.pepper),
		AuthSalt:     creds.AuthSalt,
		KekSalt:      creds.KekSalt,
		WrappedDEK:   creds.WrappedDEK,
		DEKNonce:     creds.DEKNonce,
		KDF:          creds.KDF,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.SessionGrant{}, err
		}
		log.Err(err).Msg("user creation ended with error")
		return models.SessionGrant{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return a.issueSession(ctx, registeredUser.UserID)
}

// PreLogin hands a client the AuthSalt and KDF parameters recorded for its
// account so it can reproduce the exact AuthSecret derivation. For an email
// with no account the answer is a decoy derived deterministically from the
// pepper: stable across calls, indistinguishable in shape from a real one,
// so the endpoint cannot be used to enumerate accounts.
func (a *authService) PreLogin(ctx context.Context, email string) (models.PreLoginParams, error) {
	if email == "" {
		return models.PreLoginParams{}, ErrInvalidDataProvided
	}

	normalized := NormalizeEmail(email)

	user, err := a.userRepository.FindUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.PreLoginParams{
				AuthSalt: a.decoySalt(normalized),
				KDF:      crypto.AuthParams(),
			}, nil
		}
		logger.FromContext(ctx).Err(err).Msg("user search by email failed")
		return models.PreLoginParams{}, fmt.Errorf("user search by email failed: %w", err)
	}

	return models.PreLoginParams{
		AuthSalt: user.AuthSalt,
		KDF:      user.KDF,
	}, nil
}

// decoySalt produces a stable fake AuthSalt for a nonexistent account.
// Keyed by the pepper so outsiders cannot precompute which salts are decoys.
func (a *authService) decoySalt(normalizedEmail string) []byte {
	mac := hmac.New(sha256.New, a.pepper)
	mac.Write([]byte("prelogin:" + normalizedEmail))
	return mac.Sum(nil)[:crypto.SaltSize]
}

// Login runs the per-attempt state machine:
//
//	Unauthenticated → LockedOut | CredentialCheck → Authenticated | CredentialRejected
//
// An unknown email and a wrong AuthSecret both come back as
// [ErrInvalidCredentials]; an active lock comes back as an
// [AccountLockedError] without touching the failure counter.
func (a *authService) Login(ctx context.Context, email string, authSecret []byte) (models.LoginGrant, error) {
	log := logger.FromContext(ctx)

	if email == "" || len(authSecret) == 0 {
		return models.LoginGrant{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			// Same answer as a wrong password: no email enumeration.
			return models.LoginGrant{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.LoginGrant{}, fmt.Errorf("user search by email failed: %w", err)
	}

	now := a.now()

	if allowed, remaining := a.lockout.Evaluate(user.LockedUntil, now); !allowed {
		return models.LoginGrant{}, &AccountLockedError{RetryAfter: remaining}
	}

	verifier := crypto.ComputeVerifier(authSecret, a.pepper)
	if !crypto.VerifierMatch(verifier, user.AuthVerifier) {
		return models.LoginGrant{}, a.recordFailedAttempt(ctx, user, now)
	}

	// Success: reset the counter and clear any stale (already elapsed) lock.
	if user.FailedLoginAttempts != 0 || user.LockedUntil != nil {
		if err := a.userRepository.UpdateLoginState(ctx, user.UserID, 0, nil); err != nil {
			log.Err(err).Int64("id", user.UserID).Msg("failed to reset login state")
			return models.LoginGrant{}, fmt.Errorf("failed to reset login state: %w", err)
		}
	}

	grant, err := a.issueSession(ctx, user.UserID)
	if err != nil {
		return models.LoginGrant{}, err
	}

	return models.LoginGrant{
		SessionGrant: grant,
		Keyset: models.Keyset{
			AuthSalt:   user.AuthSalt,
			KekSalt:    user.KekSalt,
			WrappedDEK: user.WrappedDEK,
			DEKNonce:   user.DEKNonce,
			KDF:        user.KDF,
		},
	}, nil
}

// recordFailedAttempt increments the failure counter read at the top of this
// attempt, arms the lock when the threshold is reached, and translates the
// new state into the caller-facing error.
func (a *authService) recordFailedAttempt(ctx context.Context, user models.User, now time.Time) error {
	log := logger.FromContext(ctx)

	newFailed, lockedUntil := a.lockout.NextState(user.FailedLoginAttempts, now)
	if err := a.userRepository.UpdateLoginState(ctx, user.UserID, newFailed, lockedUntil); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("failed to persist login failure")
		return fmt.Errorf("failed to persist login failure: %w", err)
	}

	log.Debug().
		Int64("id", user.UserID).
		Int("failed_attempts", newFailed).
		Bool("locked", lockedUntil != nil).
		Msg("credential check rejected")

	if lockedUntil != nil {
		return &AccountLockedError{RetryAfter: a.lockout.Duration}
	}

	return ErrInvalidCredentials
}

// Logout revokes the session behind token. The operation is idempotent and
// reports success even when the token was already invalid: the caller ends
// up logged out either way.
func (a *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := a.sessions.Delete(ctx, token); err != nil {
		logger.FromContext(ctx).Err(err).Msg("session revocation failed")
		return fmt.Errorf("session revocation failed: %w", err)
	}

	return nil
}

// Recover replaces the account's entire credential set: verifier, both
// salts, the wrapped DEK, and the KDF parameters. It requires that the
// caller has already proven possession of the original DEK through the
// external recovery-phrase mechanism; nothing here re-checks the old
// password, and lockout state never gates recovery — it is reset instead.
// Every session issued before the rotation is revoked, so a token stolen
// along with the old password dies here.
func (a *authService) Recover(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	log := logger.FromContext(ctx)

	if err := validateCredentials(creds); err != nil {
		log.Error().Err(err).Msg("invalid recovery data provided")
		return models.SessionGrant{}, err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.SessionGrant{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.SessionGrant{}, fmt.Errorf("user search by email failed: %w", err)
	}

	user.AuthVerifier = crypto.ComputeVerifier(creds.AuthSecret, a.pepper)
	user.AuthSalt = creds.AuthSalt
	user.KekSalt = creds.KekSalt
	user.WrappedDEK = creds.WrappedDEK
	user.DEKNonce = creds.DEKNonce
	user.KDF = creds.KDF

	if err := a.userRepository.ReplaceCredentials(ctx, user); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("credential rotation failed")
		return models.SessionGrant{}, fmt.Errorf("credential rotation failed: %w", err)
	}

	if err := a.sessions.RevokeUser(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("failed to revoke sessions after rotation")
		return models.SessionGrant{}, fmt.Errorf("session revocation failed: %w", err)
	}

	return a.issueSession(ctx, user.UserID)
}

// Authenticate resolves a bearer token to its session. Any failure is
// normalised to [ErrTokenIsExpiredOrInvalid] so callers do not need to
// inspect session-store errors.
func (a *authService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	sess, err := a.sessions.Get(ctx, token)
	if err != nil {
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	return sess, nil
}

func (a *authService) issueSession(ctx context.Context, userID int64) (models.SessionGrant, error) {
	sess, err := a.sessions.Create(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("session creation failed")
		return models.SessionGrant{}, fmt.Errorf("session creation failed: %w", err)
	}

	return models.SessionGrant{
		UserID:    userID,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// validateCredentials checks the full credential set supplied at
// registration and recovery. KDF bounds are re-checked here so a cheap
// verifier can never be persisted even if a transport skips its validation.
func validateCredentials(creds models.Credentials) error {
	if creds.Email == "" || len(creds.AuthSecret) == 0 ||
		len(creds.AuthSalt) == 0 || len(creds.KekSalt) == 0 ||
		len(creds.WrappedDEK) == 0 || len(creds.DEKNonce) == 0 {
		return ErrInvalidDataProvided
	}

	return crypto.ValidateParams(creds.KDF)
}
