package identity

import (
	"context"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Claim.
	Key ContextKey = "claim"
)

// Claim represents the verified identity for a request. It is derived from a
// bearer token on each request and is never persisted, except as the owner
// projection on protected entities and the mirrored User roster entry.
type Claim struct {
	// Subject is the stable, provider-issued subject identifier.
	Subject string

	// Display name fields from the token payload.
	Email      string
	GivenName  string
	FamilyName string
}

// Get retrieves the Claim from context.
func Get(ctx context.Context) (*Claim, bool) {
	c, ok := ctx.Value(Key).(*Claim)
	return c, ok
}

// Set stores the Claim in context.
func Set(ctx context.Context, c *Claim) context.Context {
	return context.WithValue(ctx, Key, c)
}
