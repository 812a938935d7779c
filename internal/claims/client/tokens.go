package client

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider yields the bearer token used to call the provider.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is an access token obtained elsewhere, e.g. forwarded from an
// incoming request.
type StaticToken string

// Token returns the token, or ErrNoToken when it is empty.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// OAuth2Tokens adapts an oauth2.TokenSource, typically from an
// oauth2.Config after the authorization code exchange, so refreshes happen
// transparently.
type OAuth2Tokens struct {
	source oauth2.TokenSource
}

// NewOAuth2Tokens wraps src so a valid token is reused until it expires.
func NewOAuth2Tokens(src oauth2.TokenSource) OAuth2Tokens {
	return OAuth2Tokens{source: oauth2.ReuseTokenSource(nil, src)}
}

// Token returns the current access token.
func (t OAuth2Tokens) Token(ctx context.Context) (string, error) {
	if t.source == nil {
		return "", ErrNoToken
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := t.source.Token()
	if err != nil {
		return "", err
	}
	if !tok.Valid() {
		return "", ErrNoToken
	}
	return tok.AccessToken, nil
}
