package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/server"
	"github.com/desertthunder/solotter/internal/services"
	"github.com/desertthunder/solotter/internal/shared"
)

// AuthLogin runs the three-legged OAuth 1.0a flow with a local callback server and saves the access token
// to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Twitter

	oauthConfig, err := services.OAuth1Config(creds)
	if err != nil {
		return err
	}
	if oauthConfig.CallbackURL == "" {
		oauthConfig.CallbackURL = fmt.Sprintf("http://%s/callback", r.config.Server.Addr())
	}

	authorizer := services.NewAuthorizer(oauthConfig)
	requestToken, requestSecret, authURL, err := authorizer.Start()
	if err != nil {
		return err
	}

	result, err := r.awaitCallback(ctx, authorizer, requestToken, requestSecret, authURL.String(), cmd)
	if err != nil {
		return err
	}

	if err := creds.Update(result.AccessToken, result.AccessSecret, ""); err != nil {
		return err
	}

	httpClient, err := services.UserClient(ctx, creds)
	if err != nil {
		return err
	}
	twitter := services.NewTwitterService(httpClient, serviceOptions(r.config, r.logger)...)

	if user, err := twitter.VerifyCredentials(ctx); err != nil {
		r.logger.Warn("could not look up the authorized account", "error", err)
	} else {
		creds.ScreenName = user.ScreenName
	}

	r.config.Credentials.Twitter = creds
	r.twitter = twitter

	if err := shared.SaveConfig(r.configName(), r.config); err != nil {
		return fmt.Errorf("authorized but %w", err)
	}
	r.logger.Info("access token saved", "path", r.configName())

	if creds.ScreenName != "" {
		r.writePlain("✓ Logged in as @%s\n", creds.ScreenName)
	} else {
		r.writePlain("✓ Logged in\n")
	}
	return r.writePlain("Token saved to %s\n", r.configName())
}

// awaitCallback serves the OAuth callback until Twitter redirects back, the timeout fires or ctx ends.
func (r *Runner) awaitCallback(ctx context.Context, exchanger server.Exchanger, requestToken, requestSecret, authURL string, cmd *cli.Command) (*server.OAuthResult, error) {
	oauthHandler := server.NewOAuthHandler(exchanger, requestToken, requestSecret)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	serverAddr := r.config.Server.Addr()
	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}

	httpServer := &http.Server{Handler: router}
	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Twitter authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	wait := cmd.Duration("timeout")
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", wait)

	timeout := time.NewTimer(wait)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	return &result, nil
}

// AuthLogout removes the saved access token from the config file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Twitter
	if !creds.HasUserToken() {
		return r.writePlain("Not logged in.\n")
	}

	screenName := creds.ScreenName
	creds.ClearUserToken()
	r.config.Credentials.Twitter = creds

	if err := shared.SaveConfig(r.configName(), r.config); err != nil {
		return err
	}
	r.logger.Info("access token removed", "path", r.configName())

	if screenName != "" {
		return r.writePlain("✓ Logged out (@%s)\n", screenName)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus shows the account the configured credentials act as.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	twitter, err := r.requireTwitter()
	if err != nil {
		return err
	}

	if !r.config.Credentials.Twitter.HasUserToken() {
		r.writePlain("Authentication: ✗ No user token (app-only, read access)\n")
		r.writePlain("Run 'solotter auth login' to import into lists.\n")
		return nil
	}

	r.logger.Info("checking auth status")
	user, err := twitter.VerifyCredentials(ctx)
	if err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			return fmt.Errorf("%w: token rejected, run 'solotter auth login'", shared.ErrAuthFailed)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	r.writePlain("Account: @%s (%s)\n", user.ScreenName, user.Name)
	r.writePlain("Following: %d  Followers: %d  Listed: %d\n", user.FriendsCount, user.FollowersCount, user.ListedCount)
	return nil
}
