package models

import (
	"fmt"
	"strings"
	"time"
)

// GroupType tags the three kinds of user group.
type GroupType int

const (
	GroupTypeFriends GroupType = iota + 1
	GroupTypeFollowers
	GroupTypeList
)

const (
	FriendsSlug   = "_friends"
	FollowersSlug = "_followers"
)

func (t GroupType) String() string {
	switch t {
	case GroupTypeFriends:
		return "friends"
	case GroupTypeFollowers:
		return "followers"
	case GroupTypeList:
		return "list"
	default:
		return fmt.Sprintf("GroupType(%d)", int(t))
	}
}

// ParseGroupType is the inverse of [GroupType.String].
func ParseGroupType(s string) (GroupType, bool) {
	switch s {
	case "friends":
		return GroupTypeFriends, true
	case "followers":
		return GroupTypeFollowers, true
	case "list":
		return GroupTypeList, true
	}
	return 0, false
}

// GroupKey identifies exactly one group.
type GroupKey struct {
	Type        GroupType
	OwnerHandle string
	Slug        string
}

// Member is one Twitter account. The JSON tags define the snapshot file format.
type Member struct {
	ID          string `json:"userId,omitempty"`
	Handle      string `json:"screenName,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// Key returns a canonical identity string: the account id when present, otherwise the lowercased handle.
// Equal keys always mean the same account. The converse does not hold: groups.Diff also matches a member
// that has an id with a handle-only member of the same handle, and their keys differ.
func (m Member) Key() string {
	if m.ID != "" {
		return "id:" + m.ID
	}
	return "handle:" + strings.ToLower(m.Handle)
}

// String renders the member as @handle, falling back to the id.
func (m Member) String() string {
	if m.Handle != "" {
		return "@" + m.Handle
	}
	return "#" + m.ID
}

// MembershipDiff is the result of comparing an old and a new membership list.
type MembershipDiff struct {
	Added   []Member `json:"added"`
	Removed []Member `json:"removed"`
}

// Empty reports whether applying the diff would change nothing.
func (d MembershipDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// GroupExport is the membership of one group at the time it was fetched.
type GroupExport struct {
	Key        GroupKey
	Path       string
	Members    []Member
	ExportedAt time.Time
}
