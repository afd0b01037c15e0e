// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth implements credential handling and the voter identity rules.

# Passwords

HashPassword / CheckPassword wrap bcrypt. CheckPassword returns
ErrInvalidCredentials on any mismatch; login handlers surface the same
error for unknown users so the two cases are indistinguishable.

# Tokens

IssueToken signs an HS256 bearer token carrying the subject user ID and
role, valid for 24 hours. ParseToken verifies signature, expiry, and
signing method.

# Identity Resolution

RequestClaims maps the Authorization header to one of three states:

  - no header: anonymous caller (nil claims, nil error)
  - valid Bearer token: authenticated (claims)
  - present but invalid token: ErrInvalidToken

Anonymous callers vote under their network address (models.Anonymous);
authenticated callers vote under their user ID (models.Authenticated).

# Authorization

Authorize is the role predicate for gated operations:

	claims, err := auth.RequestClaims(r, secret)
	// ...
	if err := auth.Authorize(claims, models.RoleAdmin); err != nil {
		// ErrUnauthenticated → 401, ErrForbidden → 403
	}
*/
package auth
