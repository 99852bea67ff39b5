package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/solotter/internal/shared"
)

// MaxTweetLength is the character limit enforced before posting.
const MaxTweetLength = 280

// TwitterUser is the subset of a user object the CLI displays.
type TwitterUser struct {
	ID              string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	FriendsCount    int    `json:"friends_count"`
	FollowersCount  int    `json:"followers_count"`
	ListedCount     int    `json:"listed_count"`
	Protected       bool   `json:"protected"`
	ProfileImageURL string `json:"profile_image_url_https"`
}

// Tweet is the subset of a status object returned by statuses/update.
type Tweet struct {
	ID        string `json:"id_str"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// VerifyCredentials returns the authenticated user.
func (s *TwitterService) VerifyCredentials(ctx context.Context) (*TwitterUser, error) {
	params := url.Values{}
	params.Set("skip_status", "true")
	params.Set("include_entities", "false")

	var user TwitterUser
	if err := s.Get(ctx, "account/verify_credentials", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PostTweet publishes status as the authenticated user.
func (s *TwitterService) PostTweet(ctx context.Context, status string) (*Tweet, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: tweet text", shared.ErrMissingArgument)
	}
	if n := utf8.RuneCountInString(status); n > MaxTweetLength {
		return nil, fmt.Errorf("%w: tweet is %d characters, limit is %d", shared.ErrInvalidArgument, n, MaxTweetLength)
	}

	params := url.Values{}
	params.Set("status", status)
	params.Set("trim_user", "true")

	var tweet Tweet
	if err := s.Post(ctx, "statuses/update", params, &tweet); err != nil {
		return nil, err
	}
	return &tweet, nil
}

// Raw performs a GET against any endpoint and returns the undecoded JSON body.
func (s *TwitterService) Raw(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint", shared.ErrMissingArgument)
	}

	var body json.RawMessage
	if err := s.Get(ctx, strings.TrimSuffix(endpoint, ".json"), params, &body); err != nil {
		return nil, err
	}
	return body, nil
}
