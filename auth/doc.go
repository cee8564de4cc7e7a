// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, password hashing, tokens and the
request identity.

# ID Generation

Record IDs are UUIDv7 strings, so sorting by ID sorts by creation time:

	id, err := auth.NewID()

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password, bcrypt.DefaultCost)
	err = auth.CheckPassword(hash, password) // ErrInvalidCredentials on mismatch

# Tokens

TokenManager signs HS256 JWTs of three kinds. API clients exchange
credentials for an access/refresh pair; browsers hold a session token in an
HttpOnly cookie:

	tm := auth.NewTokenManager(secret, accessTTL, refreshTTL, sessionTTL)
	token, err := tm.Issue(identity, auth.KindAccess)
	identity, err := tm.Verify(token, auth.KindAccess)

Verify rejects tokens of a different kind, so a refresh token can never be
used as an access token.

# Request Identity

Middleware stores the verified caller on the request context:

	ctx = auth.WithIdentity(ctx, identity)
	identity, ok := auth.FromContext(r.Context())
*/
package auth
