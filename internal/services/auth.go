package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"
	"github.com/dghubble/oauth1/twitter"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/solotter/internal/shared"
)

// AppTokenURL issues application-only bearer tokens.
const AppTokenURL = "https://api.twitter.com/oauth2/token"

// OAuth1Config builds the three-legged OAuth 1.0a configuration for the app's consumer key pair.
func OAuth1Config(cfg shared.TwitterConfig) (*oauth1.Config, error) {
	if !cfg.HasConsumer() {
		return nil, fmt.Errorf("%w: twitter consumer key and secret", shared.ErrMissingCredentials)
	}

	return &oauth1.Config{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		CallbackURL:    cfg.CallbackURL,
		Endpoint:       twitter.AuthorizeEndpoint,
	}, nil
}

// UserClient returns an [http.Client] that signs requests with the configured user access token.
func UserClient(ctx context.Context, cfg shared.TwitterConfig) (*http.Client, error) {
	config, err := OAuth1Config(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.HasUserToken() {
		return nil, fmt.Errorf("%w: run `solotter auth login` first", shared.ErrNotAuthenticated)
	}
	return config.Client(ctx, oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)), nil
}

// AppClient returns an [http.Client] using an application-only bearer token.
//
// App-only requests can read public friends, followers and list members but cannot mutate anything.
func AppClient(ctx context.Context, cfg shared.TwitterConfig, tokenURL string) (*http.Client, error) {
	if !cfg.HasConsumer() {
		return nil, fmt.Errorf("%w: twitter consumer key and secret", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = AppTokenURL
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ConsumerKey,
		ClientSecret: cfg.ConsumerSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return cc.Client(ctx), nil
}

// Authorizer drives the three-legged OAuth 1.0a login.
type Authorizer struct {
	config *oauth1.Config
}

// NewAuthorizer wraps config.
func NewAuthorizer(config *oauth1.Config) *Authorizer {
	return &Authorizer{config: config}
}

// Start obtains a request token and the URL the user must visit to approve it.
func (a *Authorizer) Start() (requestToken, requestSecret string, authURL *url.URL, err error) {
	requestToken, requestSecret, err = a.config.RequestToken()
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: failed to get request token: %v", shared.ErrAuthFailed, err)
	}

	authURL, err = a.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: failed to build authorization URL: %v", shared.ErrAuthFailed, err)
	}
	return requestToken, requestSecret, authURL, nil
}

// AccessToken exchanges an approved request token and verifier for the user's access token pair.
func (a *Authorizer) AccessToken(requestToken, requestSecret, verifier string) (string, string, error) {
	accessToken, accessSecret, err := a.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to exchange verifier: %v", shared.ErrAuthFailed, err)
	}
	return accessToken, accessSecret, nil
}
