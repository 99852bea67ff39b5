package groups

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

// PathPattern is the grammar of a group path, suitable for input validation messages.
const PathPattern = `^(?:@([A-Za-z0-9_-]+)/)?([A-Za-z0-9_-]+)$`

var pathRe = regexp.MustCompile(PathPattern)

// Parse converts a group path into a [models.GroupKey]. A path without a handle prefix belongs to defaultHandle.
func Parse(path, defaultHandle string) (models.GroupKey, error) {
	m := pathRe.FindStringSubmatch(strings.TrimSpace(path))
	if m == nil {
		return models.GroupKey{}, fmt.Errorf("%w: %q", shared.ErrInvalidPath, path)
	}

	handle, slug := m[1], m[2]
	if handle == "" {
		handle = defaultHandle
	}

	return models.GroupKey{Type: typeOfSlug(slug), OwnerHandle: handle, Slug: slug}, nil
}

// Unparse renders key as @owner/slug.
func Unparse(key models.GroupKey) string {
	return "@" + key.OwnerHandle + "/" + key.Slug
}

func typeOfSlug(slug string) models.GroupType {
	switch slug {
	case models.FriendsSlug:
		return models.GroupTypeFriends
	case models.FollowersSlug:
		return models.GroupTypeFollowers
	default:
		return models.GroupTypeList
	}
}
