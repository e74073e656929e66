// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package client

import (
	"bytes"
	"context"
	"testing"

	"github.com/dkorchagin/vaultguard/internal/adapter"
	"github.com/dkorchagin/vaultguard/internal/crypto"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServerAdapter is an in-memory stand-in for the HTTP transport. Register
// and Recover record the submitted credential set; PreLogin and Login answer
// from it the way the real server would.
type fakeServerAdapter struct {
	creds models.Credentials
	token string

	registerCalls int
	logoutCalls   int
}

func (f *fakeServerAdapter) SetToken(token string) { f.token = token }
func (f *fakeServerAdapter) Token() string         { return f.token }

func (f *fakeServerAdapter) PreLogin(_ context.Context, email string) (models.PreLoginParams, error) {
	if email != f.creds.Email {
		// decoy, same shape as a real account
		return models.PreLoginParams{AuthSalt: bytes.Repeat([]byte{0xD0}, crypto.SaltSize), KDF: crypto.AuthParams()}, nil
	}
	return models.PreLoginParams{AuthSalt: f.creds.AuthSalt, KDF: f.creds.KDF}, nil
}

func (f *fakeServerAdapter) Register(_ context.Context, creds models.Credentials) (models.SessionGrant, error) {
	f.registerCalls++
	f.creds = creds
	f.token = "tok-register"
	return models.SessionGrant{UserID: 1, Token: f.token}, nil
}

func (f *fakeServerAdapter) Login(_ context.Context, email string, authSecret []byte) (models.LoginGrant, error) {
	if email != f.creds.Email || !bytes.Equal(authSecret, f.creds.AuthSecret) {
		return models.LoginGrant{}, adapter.ErrUnauthorized
	}

	f.token = "tok-login"
	return models.LoginGrant{
		SessionGrant: models.SessionGrant{UserID: 1, Token: f.token},
		Keyset: models.Keyset{
			AuthSalt:   f.creds.AuthSalt,
			KekSalt:    f.creds.KekSalt,
			WrappedDEK: f.creds.WrappedDEK,
			DEKNonce:   f.creds.DEKNonce,
			KDF:        f.creds.KDF,
		},
	}, nil
}

func (f *fakeServerAdapter) Logout(_ context.Context) error {
	f.logoutCalls++
	f.token = ""
	return nil
}

func (f *fakeServerAdapter) Recover(_ context.Context, creds models.Credentials) (models.SessionGrant, error) {
	if creds.Email != f.creds.Email {
		return models.SessionGrant{}, adapter.ErrUnauthorized
	}
	f.creds = creds
	f.token = "tok-recover"
	return models.SessionGrant{UserID: 1, Token: f.token}, nil
}

func (f *fakeServerAdapter) ServerVersion(_ context.Context) (string, error) {
	return "test-version", nil
}

func newTestClient(t *testing.T) (*VaultClient, *fakeServerAdapter) {
	t.Helper()
	fake := &fakeServerAdapter{}
	c, err := New(fake, logger.Nop())
	require.NoError(t, err)
	return c, fake
}

// ── Construction ─────────────────────────────────────────────────────────────

func TestNew_RequiresAdapter(t *testing.T) {
	_, err := New(nil, logger.Nop())
	require.Error(t, err)
}

// ── Register ────────────────────────────────────────────────────────────────

func TestRegister_DerivesEverythingLocally(t *testing.T) {
	c, fake := newTestClient(t)

	grant, err := c.Register(context.Background(), "alice@example.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, int64(1), grant.UserID)
	assert.Equal(t, 1, fake.registerCalls)

	// the password itself never goes on the wire
	assert.NotContains(t, string(fake.creds.AuthSecret), "correct horse")
	assert.Len(t, fake.creds.AuthSecret, crypto.KeySize)
	assert.Len(t, fake.creds.AuthSalt, crypto.SaltSize)
	assert.Len(t, fake.creds.KekSalt, crypto.SaltSize)
	assert.NotEqual(t, fake.creds.AuthSalt, fake.creds.KekSalt)
	assert.NotEmpty(t, fake.creds.WrappedDEK)
	assert.Len(t, fake.creds.DEKNonce, crypto.NonceSize)

	// vault unlocked with a fresh 256-bit DEK
	dek, err := c.DEK()
	require.NoError(t, err)
	assert.Len(t, dek, crypto.KeySize)

	_, active := c.Session()
	assert.True(t, active)
}

func TestRegister_EmptyInputs(t *testing.T) {
	c, fake := newTestClient(t)

	_, err := c.Register(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrEmptyEmail)

	_, err = c.Register(context.Background(), "alice@example.com", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	assert.Zero(t, fake.registerCalls)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_RoundTripRecoversSameDEK(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice@example.com", "master-password")
	require.NoError(t, err)

	registeredDEK, err := c.DEK()
	require.NoError(t, err)

	// a second client with no local state logs in and unwraps the same DEK
	c2, err := New(fake, logger.Nop())
	require.NoError(t, err)

	grant, err := c2.Login(ctx, "alice@example.com", "master-password")
	require.NoError(t, err)
	assert.Equal(t, "tok-login", grant.Token)

	loginDEK, err := c2.DEK()
	require.NoError(t, err)
	assert.Equal(t, registeredDEK, loginDEK)
}

func TestLogin_WrongPasswordStaysLocked(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice@example.com", "master-password")
	require.NoError(t, err)

	c2, err := New(fake, logger.Nop())
	require.NoError(t, err)

	_, err = c2.Login(ctx, "alice@example.com", "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)

	_, err = c2.DEK()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogin_TamperedKeysetFailsUnwrap(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice@example.com", "master-password")
	require.NoError(t, err)

	// flip a bit in the stored wrapped DEK
	fake.creds.WrappedDEK[0] ^= 0xFF

	c2, err := New(fake, logger.Nop())
	require.NoError(t, err)

	_, err = c2.Login(ctx, "alice@example.com", "master-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	_, err = c2.DEK()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

// ── Recover ──────────────────────────────────────────────────────────────────

func TestRecover_RotatesCredentialsKeepsDEK(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice@example.com", "old-password")
	require.NoError(t, err)

	dek, err := c.DEK()
	require.NoError(t, err)
	oldCreds := fake.creds

	grant, err := c.Recover(ctx, "alice@example.com", "new-password", dek)
	require.NoError(t, err)
	assert.Equal(t, "tok-recover", grant.Token)

	// everything derived is fresh
	assert.NotEqual(t, oldCreds.AuthSecret, fake.creds.AuthSecret)
	assert.NotEqual(t, oldCreds.AuthSalt, fake.creds.AuthSalt)
	assert.NotEqual(t, oldCreds.KekSalt, fake.creds.KekSalt)
	assert.NotEqual(t, oldCreds.WrappedDEK, fake.creds.WrappedDEK)

	// the new password unwraps the same vault key
	c2, err := New(fake, logger.Nop())
	require.NoError(t, err)

	_, err = c2.Login(ctx, "alice@example.com", "new-password")
	require.NoError(t, err)

	recoveredDEK, err := c2.DEK()
	require.NoError(t, err)
	assert.Equal(t, dek, recoveredDEK)
}

func TestRecover_RequiresDEK(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Recover(context.Background(), "alice@example.com", "new-password", nil)
	require.Error(t, err)
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestLogout_WipesDEKAndSession(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice@example.com", "master-password")
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, 1, fake.logoutCalls)

	_, err = c.DEK()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, active := c.Session()
	assert.False(t, active)
}

func TestLogout_WithoutSessionIsNoop(t *testing.T) {
	c, fake := newTestClient(t)

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, 1, fake.logoutCalls)
}

// ── ServerVersion ────────────────────────────────────────────────────────────

func TestServerVersion_PassesThrough(t *testing.T) {
	c, _ := newTestClient(t)

	got, err := c.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-version", got)
}
