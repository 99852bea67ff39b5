// Package groups reconciles the membership of Twitter user groups.
//
// A group is the set of accounts a user follows (friends), the accounts following them (followers),
// or the members of one of their lists. Groups are addressed by a compact path:
//
//	@handle/slug
//	slug
//
// where the reserved slugs "_friends" and "_followers" select the built-in groups and any other slug names a list.
// A bare slug belongs to the default handle (normally the authenticated user).
//
// # Components
//
//   - [Parse] and [Unparse] convert between paths and [models.GroupKey].
//   - [FromPath], [FromKey] and [All] build [Group] values for a [Client].
//   - [FetchAll] follows Twitter's cursor pagination until the end sentinel.
//   - [Diff] compares two memberships and [ApplyChunked] applies member batches sequentially.
//
// Only list groups can be patched. [Friends] and [Followers] reject [Group.Patch] with [shared.ErrUnsupportedOperation].
//
// # Failure
//
// Nothing in this package retries. Remote errors are returned as the client produced them, and a failed batch
// leaves earlier batches applied; see [ChunkError].
package groups
