// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, login-state bookkeeping, and full
// credential rotation against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists]. The
//     unique index on email is what makes concurrent duplicate registrations
//     resolve to exactly one success.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Email, user.AuthVerifier, user.AuthSalt, user.KekSalt, user.WrappedDEK, user.DEKNonce,
		user.KDF.Iterations, user.KDF.MemoryKiB, user.KDF.Parallelism, user.KDF.KeyLength,
	)

	if err := row.Scan(&user.UserID, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: user insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return user, nil
}

// FindUserByEmail retrieves the user record whose email matches the given
// normalized value.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	var lockedUntil sql.NullTime

	row := r.db.QueryRowContext(ctx, findUserByEmail, email)
	if err := row.Scan(
		&foundUser.UserID, &foundUser.Email, &foundUser.AuthVerifier, &foundUser.AuthSalt,
		&foundUser.KekSalt, &foundUser.WrappedDEK, &foundUser.DEKNonce,
		&foundUser.KDF.Iterations, &foundUser.KDF.MemoryKiB, &foundUser.KDF.Parallelism, &foundUser.KDF.KeyLength,
		&foundUser.FailedLoginAttempts, &lockedUntil, &foundUser.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: user lookup failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if lockedUntil.Valid {
		foundUser.LockedUntil = &lockedUntil.Time
	}

	return foundUser, nil
}

// UpdateLoginState persists the failure counter and lock expiry after a
// login attempt. Each attempt re-reads the latest stored counter in the
// service before calling this, so concurrent attempts can never under-count
// in a way that defeats lockout entirely.
func (r *userRepository) UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Update("users").
		Set("failed_login_attempts", failedAttempts).
		Set("locked_until", lockedUntil).
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateLoginState").Msg("error: building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingOneRow(ctx, query, args, "*userRepository.UpdateLoginState")
}

// ReplaceCredentials rotates verifier, salts, wrapped DEK, and KDF
// parameters in a single UPDATE and resets lockout state. The wholesale
// replacement avoids any window with an inconsistent salt/verifier pair.
func (r *userRepository) ReplaceCredentials(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Update("users").
		Set("auth_verifier", user.AuthVerifier).
		Set("auth_salt", user.AuthSalt).
		Set("kek_salt", user.KekSalt).
		Set("wrapped_dek", user.WrappedDEK).
		Set("dek_nonce", user.DEKNonce).
		Set("kdf_iterations", user.KDF.Iterations).
		Set("kdf_memory_kib", user.KDF.MemoryKiB).
		Set("kdf_parallelism", user.KDF.Parallelism).
		Set("kdf_key_length", user.KDF.KeyLength).
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Where(sq.Eq{"user_id": user.UserID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ReplaceCredentials").Msg("error: building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingOneRow(ctx, query, args, "*userRepository.ReplaceCredentials")
}

// execExpectingOneRow runs a DML statement that must affect exactly one user
// row, mapping zero affected rows to [ErrUserNotUpdated]. Transient driver
// errors (connection loss, deadlock rollback) get one retry.
func (r *userRepository) execExpectingOneRow(ctx context.Context, query string, args []any, caller string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && r.db.errorClassificator.Classify(err) == Retryable {
		log.Warn().Str("func", caller).Msg("transient DB error, retrying statement once")
		result, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotUpdated
	}

	return nil
}
