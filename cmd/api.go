package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/shared"
)

// Tweet posts the text argument as the authenticated user.
func (r *Runner) Tweet(ctx context.Context, cmd *cli.Command) error {
	twitter, err := r.requireTwitter()
	if err != nil {
		return err
	}
	if !r.config.Credentials.Twitter.HasUserToken() {
		return fmt.Errorf("%w: run 'solotter auth login' first", shared.ErrNotAuthenticated)
	}

	tweet, err := twitter.PostTweet(ctx, cmd.StringArg("text"))
	if err != nil {
		return err
	}
	r.logger.Info("tweet posted", "id", tweet.ID)

	if cmd.Bool("json") {
		return r.writeJSON(tweet, true)
	}
	return r.writePlain("✓ Tweeted (id %s)\n", tweet.ID)
}

// APIGet performs a raw GET against a Twitter endpoint and prints the JSON response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	twitter, err := r.requireTwitter()
	if err != nil {
		return err
	}

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	endpoint := strings.Trim(cmd.StringArg("endpoint"), "/")
	r.logger.Debug("raw API request", "endpoint", endpoint, "params", params.Encode())

	body, err := twitter.Raw(ctx, endpoint, params)
	if err != nil {
		return err
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return r.writePlain("%s\n", body)
	}
	return r.writeJSON(data, cmd.Bool("pretty"))
}

// parseParams turns key=value pairs into query parameters.
func parseParams(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: parameter %q must be key=value", shared.ErrInvalidArgument, pair)
		}
		params.Add(key, value)
	}
	return params, nil
}
