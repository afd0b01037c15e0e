// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from an Authorization header.
// The second return is false when no Authorization header is present;
// a present but non-Bearer header returns ("", true) and fails parsing
// downstream rather than being treated as anonymous.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// RequestClaims resolves the caller's authentication state.
//
// Returns (nil, nil) for a request with no Authorization header: the
// caller is anonymous, which is a legal state for voting. A header that
// is present but does not verify returns ErrInvalidToken - an expired
// token is rejected outright instead of silently downgrading the caller
// to an anonymous address identity.
func RequestClaims(r *http.Request, secret string) (*Claims, error) {
	tokenStr, ok := BearerToken(r)
	if !ok {
		return nil, nil
	}
	return ParseToken(tokenStr, secret)
}
