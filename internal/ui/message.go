package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/solotter/internal/groups"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGroupsFetched MsgKind = iota
	MsgMembersFetched
	MsgProgressUpdate
	MsgExportComplete
)

type groupsFetched struct {
	groups []groups.Group
	err    error
}

type membersFetched struct {
	export *models.GroupExport
	err    error
}

type exportComplete struct {
	path string
	err  error
}

// groupsFetchedMsg is the constructor for [MsgGroupsFetched]
func groupsFetchedMsg(all []groups.Group, err error) Msg {
	return Msg{kind: MsgGroupsFetched, data: groupsFetched{all, err}}
}

// membersFetchedMsg is the constructor for [MsgMembersFetched]
func membersFetchedMsg(export *models.GroupExport, err error) Msg {
	return Msg{kind: MsgMembersFetched, data: membersFetched{export, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(path string, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportComplete{path, err}}
}
