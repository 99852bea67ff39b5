package groups

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

const (
	// DefaultPageSize is the largest page the friends, followers and list member endpoints return.
	DefaultPageSize = 5000
	// DefaultChunkSize is the per-call ceiling of lists/members/create_all and destroy_all.
	DefaultChunkSize = 100
)

// Client is the subset of the Twitter REST API the engine needs.
//
// endpoint is a v1.1 resource such as "lists/members". Post sends params in the query string with an empty body.
type Client interface {
	Get(ctx context.Context, endpoint string, params url.Values, out any) error
	Post(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Group is one of [*Friends], [*Followers] or [*List].
type Group interface {
	Key() models.GroupKey
	Path() string
	FetchMembers(ctx context.Context) ([]models.Member, error)
	Patch(ctx context.Context, diff models.MembershipDiff) error

	sealed()
}

type user struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

func (u user) member() models.Member {
	id := u.IDStr
	if id == "" && u.ID != 0 {
		id = strconv.FormatInt(u.ID, 10)
	}
	return models.Member{ID: id, Handle: u.ScreenName, DisplayName: u.Name}
}

type usersPage struct {
	Users  []user `json:"users"`
	Cursor int64  `json:"next_cursor"`
}

func (p *usersPage) NextCursor() int64 { return p.Cursor }

// fetchUsers paginates a users endpoint and flattens the pages into members.
func fetchUsers(ctx context.Context, client Client, endpoint string, params url.Values) ([]models.Member, error) {
	pages, err := FetchAll(ctx, params, func(ctx context.Context, p url.Values) (*usersPage, error) {
		var page usersPage
		if err := client.Get(ctx, endpoint, p, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, err
	}

	var members []models.Member
	for _, page := range pages {
		for _, u := range page.Users {
			members = append(members, u.member())
		}
	}
	return members, nil
}

// relation backs the friends and followers groups, which differ only in endpoint.
type relation struct {
	key      models.GroupKey
	endpoint string
	client   Client
	pageSize int
}

func (g *relation) Key() models.GroupKey { return g.key }
func (g *relation) Path() string         { return Unparse(g.key) }

func (g *relation) FetchMembers(ctx context.Context) ([]models.Member, error) {
	params := url.Values{}
	params.Set("screen_name", g.key.OwnerHandle)
	params.Set("count", strconv.Itoa(g.pageSize))
	params.Set("skip_status", "true")
	params.Set("include_user_entities", "false")

	members, err := fetchUsers(ctx, g.client, g.endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", g.Path(), err)
	}
	return members, nil
}

func (g *relation) Patch(context.Context, models.MembershipDiff) error {
	return fmt.Errorf("%w: cannot import into %s", shared.ErrUnsupportedOperation, g.Path())
}

func (g *relation) sealed() {}

// Friends is the group of accounts the owner follows.
type Friends struct{ relation }

// Followers is the group of accounts following the owner.
type Followers struct{ relation }

// List is a Twitter list owned by the key's handle. It is the only group whose membership can be patched.
type List struct {
	key       models.GroupKey
	client    Client
	pageSize  int
	chunkSize int
}

func (g *List) Key() models.GroupKey { return g.key }
func (g *List) Path() string         { return Unparse(g.key) }
func (g *List) sealed()              {}

func (g *List) listParams() url.Values {
	params := url.Values{}
	params.Set("owner_screen_name", g.key.OwnerHandle)
	params.Set("slug", g.key.Slug)
	return params
}

// FetchMembers returns the list's members in the order Twitter reports them.
func (g *List) FetchMembers(ctx context.Context) ([]models.Member, error) {
	params := g.listParams()
	params.Set("count", strconv.Itoa(g.pageSize))
	params.Set("skip_status", "true")
	params.Set("include_entities", "false")

	members, err := fetchUsers(ctx, g.client, "lists/members", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", g.Path(), err)
	}
	return members, nil
}

// Patch removes diff.Removed and then adds diff.Added, each in chunks.
//
// Every removal is sent before the first addition. A failure is returned as a [*PatchError] recording what had already been applied.
func (g *List) Patch(ctx context.Context, diff models.MembershipDiff) error {
	if err := ApplyChunked(ctx, diff.Removed, g.chunkSize, g.mutation("lists/members/destroy_all")); err != nil {
		return &PatchError{Path: g.Path(), Removed: applied(err), Err: err}
	}
	if err := ApplyChunked(ctx, diff.Added, g.chunkSize, g.mutation("lists/members/create_all")); err != nil {
		return &PatchError{Path: g.Path(), Removed: len(diff.Removed), Added: applied(err), Err: err}
	}
	return nil
}

// PatchError reports how much of a diff reached the list before a batch failed.
type PatchError struct {
	Path    string
	Removed int
	Added   int
	Err     error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patching %s stopped after %d removals and %d additions: %v", e.Path, e.Removed, e.Added, e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }

func applied(err error) int {
	var chunkErr *ChunkError
	if errors.As(err, &chunkErr) {
		return chunkErr.Applied
	}
	return 0
}

// Mutable reports whether g accepts [Group.Patch].
func Mutable(g Group) bool {
	_, ok := g.(*List)
	return ok
}

func (g *List) mutation(endpoint string) ChunkFunc {
	return func(ctx context.Context, chunk []models.Member) error {
		params := g.listParams()
		name, values := memberParam(chunk)
		params.Set(name, strings.Join(values, ","))
		return g.client.Post(ctx, endpoint, params, nil)
	}
}

// memberParam picks user_id when every member carries an id, screen_name otherwise.
func memberParam(chunk []models.Member) (string, []string) {
	ids := make([]string, 0, len(chunk))
	for _, m := range chunk {
		if m.ID == "" {
			break
		}
		ids = append(ids, m.ID)
	}
	if len(ids) == len(chunk) {
		return "user_id", ids
	}

	names := make([]string, len(chunk))
	for i, m := range chunk {
		names[i] = m.Handle
	}
	return "screen_name", names
}
