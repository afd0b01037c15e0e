// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// IdentityKind distinguishes how a voter was identified.
type IdentityKind string

const (
	// IdentityAuthenticated means the voter presented a valid bearer token;
	// Subject is the user ID from the token.
	IdentityAuthenticated IdentityKind = "user"

	// IdentityAnonymous means the voter carried no token; Subject is the
	// caller's network address. Anonymous callers behind the same address
	// share one vote per poll. That collision is a documented property of
	// address-based identity, not something the service works around.
	IdentityAnonymous IdentityKind = "addr"
)

// Identity is the uniqueness key for voting: one persisted vote per
// (poll, identity) pair. Keeping the kind explicit means an authenticated
// user whose ID happens to equal some caller address can never collide
// with that address's anonymous vote.
type Identity struct {
	Kind    IdentityKind
	Subject string
}

// Authenticated returns the identity for a logged-in user.
func Authenticated(userID string) Identity {
	return Identity{Kind: IdentityAuthenticated, Subject: userID}
}

// Anonymous returns the identity for an unauthenticated caller address.
func Anonymous(address string) Identity {
	return Identity{Kind: IdentityAnonymous, Subject: address}
}

// Key is the string stored in the vote row's voter_identity column and
// covered by the unique constraint.
func (i Identity) Key() string {
	return string(i.Kind) + ":" + i.Subject
}

// IsAuthenticated reports whether the identity came from a bearer token.
func (i Identity) IsAuthenticated() bool {
	return i.Kind == IdentityAuthenticated
}
