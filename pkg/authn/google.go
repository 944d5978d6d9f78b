package authn

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/openhiking/trailhub/pkg/identity"
)

// GoogleVerifier validates Google-issued ID tokens.
type GoogleVerifier struct {
	validator *idtoken.Validator
	audience  string
}

// NewGoogleVerifier creates a verifier that checks token signatures against
// Google's published keys and requires the given audience (the OAuth client ID).
func NewGoogleVerifier(ctx context.Context, audience string) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: audience}, nil
}

// Verify implements Verifier.
func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*identity.Claim, error) {
	rawToken = StripBearer(rawToken)
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	payload, err := g.validator.Validate(ctx, rawToken, g.audience)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &identity.Claim{
		Subject:    payload.Subject,
		Email:      stringClaim(payload.Claims, "email"),
		GivenName:  stringClaim(payload.Claims, "given_name"),
		FamilyName: stringClaim(payload.Claims, "family_name"),
	}, nil
}

func stringClaim(claims map[string]interface{}, name string) string {
	v, _ := claims[name].(string)
	return v
}

// GoogleExchanger exchanges OAuth authorization codes with Google's token
// endpoint and extracts the ID token from the response.
type GoogleExchanger struct {
	cfg *oauth2.Config
}

// NewGoogleExchanger builds an exchanger for the given OAuth client.
func NewGoogleExchanger(clientID, clientSecret, redirectURL string) *GoogleExchanger {
	return &GoogleExchanger{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the provider URL to send the browser to.
func (g *GoogleExchanger) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for the raw ID token.
func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("token response carried no id_token")
	}
	return rawIDToken, nil
}
