package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// GoogleIdentity is the profile carried by a verified Google ID token.
type GoogleIdentity struct {
	Email   string
	Name    string
	Subject string
	Picture string
}

// IdentityExchanger trades a sign-in authorization code for a verified identity.
type IdentityExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

// GoogleClient exchanges codes from the client-side popup flow, which uses
// the "postmessage" redirect URI, and verifies the returned ID token.
type GoogleClient struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewGoogleClient(ctx context.Context, clientID, clientSecret string) (*GoogleClient, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create google provider: %w", err)
	}

	return &GoogleClient{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  "postmessage",
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (g *GoogleClient) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := g.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}

	return &GoogleIdentity{
		Email:   claims.Email,
		Name:    claims.Name,
		Subject: idToken.Subject,
		Picture: claims.Picture,
	}, nil
}
