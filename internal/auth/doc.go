// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package auth provides account registration, login and request authentication.

# Credentials

Passwords are hashed with bcrypt (golang.org/x/crypto/bcrypt) at the
configured cost. Login answers an unknown e-mail address and a wrong password
identically, and compares against a dummy hash for unknown addresses so both
paths take the same time.

Sessions are stateless HS256 JWTs (golang-jwt/jwt/v5) whose subject is the
account id. Tokens signed with any other algorithm are rejected. There is no
server-side session state; logging out means the client discards the token.

# Middleware

Middleware.Authenticate accepts the token from:

  - Authorization: Bearer <token>
  - the "token" cookie

AuthenticateStream additionally accepts a "token" query parameter because
browsers cannot set headers on websocket upgrades.

On success the account is loaded from the store and attached to the request
context; handlers read it with AccountFromContext. A missing, malformed,
expired or badly signed token, or one naming an account that no longer
exists, is rejected with 401 before the handler runs.

# Throttling

LoginLimiter throttles login attempts per e-mail address with a token bucket
(golang.org/x/time/rate), in addition to the per-IP route limit applied by
the router. Stale buckets are removed by its Serve loop, which runs under the
process supervisor.
*/
package auth
