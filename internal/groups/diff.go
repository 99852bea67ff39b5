package groups

import (
	"strings"

	"github.com/desertthunder/solotter/internal/models"
)

// Diff compares two memberships. Removed holds members of before missing from after, Added the reverse,
// each in the order of its source list.
//
// Two members are the same account when their ids match. When either side lacks an id
// (a hand-written snapshot entry, say) their handles are compared case-insensitively instead.
func Diff(before, after []models.Member) models.MembershipDiff {
	beforeIdx, afterIdx := indexMembers(before), indexMembers(after)

	var diff models.MembershipDiff
	for _, m := range before {
		if !afterIdx.contains(m) {
			diff.Removed = append(diff.Removed, m)
		}
	}
	for _, m := range after {
		if !beforeIdx.contains(m) {
			diff.Added = append(diff.Added, m)
		}
	}
	return diff
}

type memberIndex struct {
	ids            map[string]struct{}
	handles        map[string]struct{} // every handle
	handlesWithout map[string]struct{} // handles of members without an id
}

func indexMembers(members []models.Member) memberIndex {
	idx := memberIndex{
		ids:            make(map[string]struct{}, len(members)),
		handles:        make(map[string]struct{}, len(members)),
		handlesWithout: make(map[string]struct{}),
	}
	for _, m := range members {
		h := strings.ToLower(m.Handle)
		if m.ID != "" {
			idx.ids[m.ID] = struct{}{}
		} else if h != "" {
			idx.handlesWithout[h] = struct{}{}
		}
		if h != "" {
			idx.handles[h] = struct{}{}
		}
	}
	return idx
}

func (idx memberIndex) contains(m models.Member) bool {
	h := strings.ToLower(m.Handle)
	if m.ID == "" {
		_, ok := idx.handles[h]
		return h != "" && ok
	}
	if _, ok := idx.ids[m.ID]; ok {
		return true
	}
	_, ok := idx.handlesWithout[h]
	return h != "" && ok
}
