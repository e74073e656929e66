// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkorchagin/vaultguard/internal/adapter"
	"github.com/dkorchagin/vaultguard/internal/crypto"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/models"
)

// VaultClient drives the client side of the protocol over a [adapter.ServerAdapter].
// It derives the AuthSecret and KEK from the master password locally, keeps
// the unwrapped DEK in memory for the lifetime of the session, and wipes it
// on logout. Safe for concurrent use.
type VaultClient struct {
	server adapter.ServerAdapter
	logger *logger.Logger

	mu      sync.Mutex
	session models.SessionGrant
	dek     []byte
}

// New constructs a VaultClient over the given server transport.
func New(server adapter.ServerAdapter, logger *logger.Logger) (*VaultClient, error) {
	if server == nil {
		return nil, fmt.Errorf("server adapter is required")
	}

	return &VaultClient{server: server, logger: logger}, nil
}

// Register creates a new account from an email and master password.
//
// It generates fresh AuthSalt and KekSalt, derives the AuthSecret and KEK
// with the standard cost presets, generates a random DEK, wraps it under the
// KEK, and sends the resulting credential set to the server. On success the
// session is stored and the vault is immediately unlocked with the new DEK.
func (c *VaultClient) Register(ctx context.Context, email, masterPassword string) (models.SessionGrant, error) {
	if err := checkInputs(email, masterPassword); err != nil {
		return models.SessionGrant{}, err
	}

	authSalt, err := crypto.GenerateSalt()
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("generate auth salt: %w", err)
	}
	kekSalt, err := crypto.GenerateSalt()
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("generate kek salt: %w", err)
	}

	kdf := crypto.AuthParams()
	authSecret, err := crypto.DeriveKey([]byte(masterPassword), authSalt, kdf)
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive auth secret: %w", err)
	}

	kek, err := crypto.DeriveKey([]byte(masterPassword), kekSalt, crypto.KEKParams())
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive kek: %w", err)
	}
	defer wipe(kek)

	dek, err := crypto.GenerateDEK()
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("generate dek: %w", err)
	}

	wrapped, nonce, err := crypto.WrapKey(dek, kek)
	if err != nil {
		wipe(dek)
		return models.SessionGrant{}, fmt.Errorf("wrap dek: %w", err)
	}

	grant, err := c.server.Register(ctx, models.Credentials{
		Email:      email,
		AuthSecret: authSecret,
		AuthSalt:   authSalt,
		KekSalt:    kekSalt,
		WrappedDEK: wrapped,
		DEKNonce:   nonce,
		KDF:        kdf,
	})
	if err != nil {
		wipe(dek)
		return models.SessionGrant{}, err
	}

	c.unlock(grant, dek)
	return grant, nil
}

// Login authenticates an existing account and unlocks the vault.
//
// It fetches the stored AuthSalt and KDF parameters first, reproduces the
// AuthSecret derivation, and submits it. On success the keyset from the grant
// is used to re-derive the KEK and unwrap the DEK. A wrong master password
// either fails at the server (wrong AuthSecret) or, in the pathological case
// of a stale keyset, at the local unwrap; both surface as errors and leave
// the vault locked.
func (c *VaultClient) Login(ctx context.Context, email, masterPassword string) (models.SessionGrant, error) {
	if err := checkInputs(email, masterPassword); err != nil {
		return models.SessionGrant{}, err
	}

	params, err := c.server.PreLogin(ctx, email)
	if err != nil {
		return models.SessionGrant{}, err
	}

	authSecret, err := crypto.DeriveKey([]byte(masterPassword), params.AuthSalt, params.KDF)
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive auth secret: %w", err)
	}

	grant, err := c.server.Login(ctx, email, authSecret)
	if err != nil {
		return models.SessionGrant{}, err
	}

	kek, err := crypto.DeriveKey([]byte(masterPassword), grant.Keyset.KekSalt, crypto.KEKParams())
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive kek: %w", err)
	}
	defer wipe(kek)

	dek, err := crypto.UnwrapKey(grant.Keyset.WrappedDEK, kek, grant.Keyset.DEKNonce)
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("unwrap dek: %w", err)
	}

	c.unlock(grant.SessionGrant, dek)
	return grant.SessionGrant, nil
}

// Recover replaces the account's full credential set with ones derived from
// newPassword, re-wrapping the caller-supplied DEK. The DEK must have been
// recovered out of band (the recovery-phrase flow); proving possession of it
// is what authorises the rotation. All previous sessions die server-side.
func (c *VaultClient) Recover(ctx context.Context, email, newPassword string, dek []byte) (models.SessionGrant, error) {
	if err := checkInputs(email, newPassword); err != nil {
		return models.SessionGrant{}, err
	}
	if len(dek) == 0 {
		return models.SessionGrant{}, fmt.Errorf("recovered dek is required")
	}

	authSalt, err := crypto.GenerateSalt()
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("generate auth salt: %w", err)
	}
	kekSalt, err := crypto.GenerateSalt()
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("generate kek salt: %w", err)
	}

	kdf := crypto.AuthParams()
	authSecret, err := crypto.DeriveKey([]byte(newPassword), authSalt, kdf)
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive auth secret: %w", err)
	}

	kek, err := crypto.DeriveKey([]byte(newPassword), kekSalt, crypto.KEKParams())
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("derive kek: %w", err)
	}
	defer wipe(kek)

	wrapped, nonce, err := crypto.WrapKey(dek, kek)
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("wrap dek: %w", err)
	}

	grant, err := c.server.Recover(ctx, models.Credentials{
		Email:      email,
		AuthSecret: authSecret,
		AuthSalt:   authSalt,
		KekSalt:    kekSalt,
		WrappedDEK: wrapped,
		DEKNonce:   nonce,
		KDF:        kdf,
	})
	if err != nil {
		return models.SessionGrant{}, err
	}

	held := make([]byte, len(dek))
	copy(held, dek)
	c.unlock(grant, held)
	return grant, nil
}

// Logout revokes the session on the server, wipes the in-memory DEK, and
// locks the vault. Calling it without a live session is a no-op.
func (c *VaultClient) Logout(ctx context.Context) error {
	if err := c.server.Logout(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	wipe(c.dek)
	c.dek = nil
	c.session = models.SessionGrant{}
	return nil
}

// DEK returns a copy of the unlocked data-encryption key, or ErrNotLoggedIn
// when the vault is locked. Callers own the copy and should wipe it when
// done.
func (c *VaultClient) DEK() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dek == nil {
		return nil, ErrNotLoggedIn
	}

	out := make([]byte, len(c.dek))
	copy(out, c.dek)
	return out, nil
}

// Session returns the current session grant and whether one is active.
func (c *VaultClient) Session() (models.SessionGrant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.dek != nil
}

// ServerVersion reports the server's build version.
func (c *VaultClient) ServerVersion(ctx context.Context) (string, error) {
	return c.server.ServerVersion(ctx)
}

func (c *VaultClient) unlock(grant models.SessionGrant, dek []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	wipe(c.dek)
	c.session = grant
	c.dek = dek
}

func checkInputs(email, password string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// wipe zeroes key material in place. Go gives no hard guarantee the memory
// is not already copied elsewhere, but zeroing shortens the window all the
// same.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
