// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package client implements the client half of the authentication protocol.
//
// All key derivation happens here, on the client: the master password never
// leaves the process, the server only ever sees the derived AuthSecret. The
// vault data-encryption key (DEK) is generated at registration, travels
// wrapped under the password-derived KEK, and after a successful login exists
// in the clear only inside [VaultClient] memory.
package client
