package authn

import (
	"context"
	"errors"
	"strings"

	"github.com/openhiking/trailhub/pkg/identity"
)

// ErrUnauthenticated is returned for every verification failure: an absent or
// empty token, a malformed token, a bad signature or audience, or a provider
// error. Callers cannot distinguish the causes.
var ErrUnauthenticated = errors.New("authentication failed")

// Verifier validates an opaque bearer token against an identity provider and
// returns the claim it carries. A single synchronous round trip, no retries.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*identity.Claim, error)
}

// Exchanger turns an OAuth authorization code into a raw ID token. The
// browser redirect flow around it is plumbing; the core only consumes these
// two calls.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (rawIDToken string, err error)
}

// StripBearer removes an optional "Bearer " scheme prefix from an
// Authorization header value.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "bearer") {
		return ""
	}
	if len(raw) > 7 && strings.EqualFold(raw[:7], "Bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
