package middleware

import (
	"net/http"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/identity"
)

// ClaimExtractor is middleware that resolves a bearer token to a claim.
type ClaimExtractor struct {
	verifier authn.Verifier
}

// NewClaimExtractor creates claim-extraction middleware over a verifier.
func NewClaimExtractor(verifier authn.Verifier) *ClaimExtractor {
	return &ClaimExtractor{verifier: verifier}
}

// Middleware verifies the Authorization header when present and stores the
// resulting claim in the request context. A missing or unverifiable token
// leaves the request without a claim; operations that require one fail with
// 401 downstream. The two cases are indistinguishable to the handler.
func (c *ClaimExtractor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			claim, err := c.verifier.Verify(r.Context(), authHeader)
			if err == nil {
				r = r.WithContext(identity.Set(r.Context(), claim))
			}
		}
		next.ServeHTTP(w, r)
	})
}
