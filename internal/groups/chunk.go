package groups

import (
	"context"
	"fmt"

	"github.com/desertthunder/solotter/internal/models"
)

// ChunkFunc applies one batch of members to the remote service.
type ChunkFunc func(ctx context.Context, chunk []models.Member) error

// ChunkError reports a batch failure. Members before Applied were already sent successfully and are not rolled back;
// re-running with members[Applied:] resumes the operation.
type ChunkError struct {
	Applied int
	Total   int
	Err     error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("batch failed after %d of %d members: %v", e.Applied, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// ApplyChunked calls action with consecutive chunks of at most limit members, in order, one at a time.
//
// A limit of zero or less means [DefaultChunkSize]. An empty members slice makes no calls.
// The first failing chunk stops the run and is returned as a [*ChunkError].
func ApplyChunked(ctx context.Context, members []models.Member, limit int, action ChunkFunc) error {
	if limit <= 0 {
		limit = DefaultChunkSize
	}

	for start := 0; start < len(members); start += limit {
		end := min(start+limit, len(members))

		err := ctx.Err()
		if err == nil {
			err = action(ctx, members[start:end])
		}
		if err != nil {
			return &ChunkError{Applied: start, Total: len(members), Err: err}
		}
	}
	return nil
}
