package groups

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

type options struct {
	pageSize  int
	chunkSize int
}

// Option tunes the groups built by [FromKey], [FromPath] and [All].
type Option func(*options)

// WithPageSize sets the count requested per page. Values outside 1..5000 are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 && n <= DefaultPageSize {
			o.pageSize = n
		}
	}
}

// WithChunkSize sets the batch size used when patching lists. Values outside 1..100 are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 && n <= DefaultChunkSize {
			o.chunkSize = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{pageSize: DefaultPageSize, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromPath parses path and builds the group it names.
func FromPath(path, defaultHandle string, client Client, opts ...Option) (Group, error) {
	key, err := Parse(path, defaultHandle)
	if err != nil {
		return nil, err
	}
	return FromKey(key, client, opts...)
}

// FromKey builds the group variant selected by key.Type.
func FromKey(key models.GroupKey, client Client, opts ...Option) (Group, error) {
	o := buildOptions(opts)

	switch key.Type {
	case models.GroupTypeFriends:
		return &Friends{relation{key: key, endpoint: "friends/list", client: client, pageSize: o.pageSize}}, nil
	case models.GroupTypeFollowers:
		return &Followers{relation{key: key, endpoint: "followers/list", client: client, pageSize: o.pageSize}}, nil
	case models.GroupTypeList:
		return &List{key: key, client: client, pageSize: o.pageSize, chunkSize: o.chunkSize}, nil
	default:
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidGroupType, key.Type)
	}
}

// All returns the friends and followers groups of handle followed by one list group per slug, in the given order.
func All(handle string, listSlugs []string, client Client, opts ...Option) []Group {
	o := buildOptions(opts)

	groups := make([]Group, 0, len(listSlugs)+2)
	groups = append(groups,
		&Friends{relation{key: models.GroupKey{Type: models.GroupTypeFriends, OwnerHandle: handle, Slug: models.FriendsSlug}, endpoint: "friends/list", client: client, pageSize: o.pageSize}},
		&Followers{relation{key: models.GroupKey{Type: models.GroupTypeFollowers, OwnerHandle: handle, Slug: models.FollowersSlug}, endpoint: "followers/list", client: client, pageSize: o.pageSize}},
	)
	for _, slug := range listSlugs {
		groups = append(groups, &List{
			key:       models.GroupKey{Type: models.GroupTypeList, OwnerHandle: handle, Slug: slug},
			client:    client,
			pageSize:  o.pageSize,
			chunkSize: o.chunkSize,
		})
	}
	return groups
}

// OwnedList describes a list returned by lists/ownerships.
type OwnedList struct {
	ID          string `json:"id_str"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	Mode        string `json:"mode"`
}

type listsPage struct {
	Lists  []OwnedList `json:"lists"`
	Cursor int64       `json:"next_cursor"`
}

func (p *listsPage) NextCursor() int64 { return p.Cursor }

// OwnedLists pages through every list owned by handle.
func OwnedLists(ctx context.Context, client Client, handle string) ([]OwnedList, error) {
	params := url.Values{}
	params.Set("screen_name", handle)
	params.Set("count", "1000")

	pages, err := FetchAll(ctx, params, func(ctx context.Context, p url.Values) (*listsPage, error) {
		var page listsPage
		if err := client.Get(ctx, "lists/ownerships", p, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lists owned by @%s: %w", handle, err)
	}

	var lists []OwnedList
	for _, page := range pages {
		lists = append(lists, page.Lists...)
	}
	return lists, nil
}

// OwnedListSlugs returns the slugs of the lists owned by handle.
func OwnedListSlugs(ctx context.Context, client Client, handle string) ([]string, error) {
	lists, err := OwnedLists(ctx, client, handle)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, len(lists))
	for i, l := range lists {
		slugs[i] = l.Slug
	}
	return slugs, nil
}
