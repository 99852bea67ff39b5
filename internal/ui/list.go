package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/solotter/internal/groups"
	"github.com/desertthunder/solotter/internal/models"
)

var (
	_ list.Item = groupItem{}
	_ list.Item = memberItem{}
)

// groupItem wraps [groups.Group] to implement [list.Item].
type groupItem struct {
	group groups.Group
}

func (i groupItem) FilterValue() string { return i.group.Path() }
func (i groupItem) Title() string       { return i.group.Path() }
func (i groupItem) Description() string {
	desc := i.group.Key().Type.String()
	if !groups.Mutable(i.group) {
		desc = fmt.Sprintf("%s • read-only", desc)
	}
	return desc
}

// memberItem wraps [models.Member] to implement [list.Item].
type memberItem struct {
	member models.Member
}

func (i memberItem) FilterValue() string { return i.member.Handle }
func (i memberItem) Title() string       { return i.member.String() }
func (i memberItem) Description() string {
	desc := i.member.DisplayName
	if i.member.ID != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.member.ID)
	}
	return desc
}
