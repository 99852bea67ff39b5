package groups

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/solotter/internal/shared"
)

// Cursor sentinels used by Twitter's paged endpoints.
const (
	StartCursor int64 = -1
	EndCursor   int64 = 0
)

// Page is one response of a cursor-paginated endpoint.
type Page interface {
	NextCursor() int64
}

// PageFunc fetches the page selected by the "cursor" parameter in params.
type PageFunc[P Page] func(ctx context.Context, params url.Values) (P, error)

// FetchAll requests pages starting at [StartCursor] and follows each page's next cursor until [EndCursor].
// Pages are returned in fetch order.
//
// params must not carry a cursor of its own. There is no page limit; ctx is checked before each request.
func FetchAll[P Page](ctx context.Context, params url.Values, fetch PageFunc[P]) ([]P, error) {
	if params.Has("cursor") {
		return nil, fmt.Errorf("%w: request already specifies a cursor", shared.ErrInvalidArgument)
	}

	var pages []P
	cursor := StartCursor
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := cloneValues(params)
		req.Set("cursor", strconv.FormatInt(cursor, 10))

		page, err := fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		cursor = page.NextCursor()
		if cursor == EndCursor {
			return pages, nil
		}
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
