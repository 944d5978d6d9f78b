// Package authn verifies bearer tokens and resolves them to identity claims.
//
// Two verifier implementations are provided:
//
//   - GoogleVerifier: validates Google-issued ID tokens against the provider's
//     published keys, requiring the configured OAuth client ID as audience.
//   - LocalVerifier: validates HS256 tokens against a shared secret, for local
//     development and tests.
//
// Every failure path (missing token, malformed token, bad signature or
// audience, provider unreachable) collapses to ErrUnauthenticated. Callers
// must not branch on the cause.
//
// # Usage
//
//	verifier, err := authn.NewGoogleVerifier(ctx, clientID)
//	claim, err := verifier.Verify(ctx, r.Header.Get("Authorization"))
//	if errors.Is(err, authn.ErrUnauthenticated) {
//	    // respond 401
//	}
//
// The package also holds the Exchanger interface for the OAuth authorization
// code exchange; GoogleExchanger implements it over golang.org/x/oauth2.
package authn
