package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GroupListView ViewState = iota
	FetchView
	MemberListView
	ConfirmView
	ResultView
)

// Options configures where the TUI writes snapshots.
type Options struct {
	Handle    string
	OutputDir string
	Format    formatter.Format
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.GroupEngine
	opts         Options
	logger       *log.Logger
	width        int
	height       int
	groupList    list.Model
	memberList   list.Model
	selected     *models.GroupExport
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	fetched      *models.GroupExport
	fetchErr     error
	resultPath   string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.GroupEngine, opts Options) *Model {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		ctx:        ctx,
		view:       GroupListView,
		engine:     engine,
		opts:       opts,
		logger:     logger,
		groupList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		memberList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by fetching the handle's groups.
func (m *Model) Init() tea.Cmd {
	return m.fetchGroups()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.groupList.SetSize(msg.Width-4, msg.Height-8)
		m.memberList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GroupListView:
			return m.handleGroupListKeys(msg)
		case MemberListView:
			return m.handleMemberListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case FetchView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgGroupsFetched:
		data := msg.data.(groupsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.groups))
		for i, g := range data.groups {
			items[i] = groupItem{group: g}
		}
		m.groupList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.groupList.Title = fmt.Sprintf("Groups of @%s", m.engine.Handle())
		m.groupList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgMembersFetched:
		data := msg.data.(membersFetched)
		m.progressChan = nil
		if data.err != nil {
			m.logger.Error("failed to fetch members", "error", data.err)
			m.err = data.err
			m.view = GroupListView
			return m, nil
		}
		m.selected = data.export
		items := make([]list.Item, len(data.export.Members))
		for i, member := range data.export.Members {
			items[i] = memberItem{member: member}
		}
		m.memberList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.memberList.Title = fmt.Sprintf("Members of %s (%d)", data.export.Path, len(data.export.Members))
		m.memberList.SetSize(m.width-4, m.height-8)
		m.view = MemberListView
		return m, nil

	case MsgExportComplete:
		data := msg.data.(exportComplete)
		m.resultPath = data.path
		m.err = data.err
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to dismiss, q to quit", m.err))
	}

	switch m.view {
	case GroupListView:
		return m.renderGroupList()
	case FetchView:
		return m.renderFetch()
	case MemberListView:
		return m.renderMemberList()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleGroupListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.err = nil
		}
		return m, nil
	}

	if m.groupList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.open):
			if item, ok := m.groupList.SelectedItem().(groupItem); ok {
				m.view = FetchView
				return m, m.fetchMembers(item.group.Path())
			}
		}
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) handleMemberListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.memberList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = GroupListView
			return m, nil
		case key.Matches(msg, m.keys.export):
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.memberList, cmd = m.memberList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.back):
		m.view = MemberListView
		return m, nil
	case key.Matches(msg, m.keys.confirm):
		return m, m.writeExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.again):
		m.view = GroupListView
		m.selected = nil
		m.resultPath = ""
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GroupListView:
		m.groupList, cmd = m.groupList.Update(msg)
	case MemberListView:
		m.memberList, cmd = m.memberList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchGroups() tea.Cmd {
	return func() tea.Msg {
		all, err := m.engine.Groups(m.ctx, m.opts.Handle, nil)
		return groupsFetchedMsg(all, err)
	}
}

// fetchMembers exports the group in the background, streaming progress until the channel closes.
func (m *Model) fetchMembers(path string) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress
	m.progress = tasks.ProgressUpdate{}

	go func() {
		export, err := m.engine.Export(m.ctx, path, progress)
		m.fetched, m.fetchErr = export, err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return membersFetchedMsg(m.fetched, m.fetchErr)
		}

		update, ok := <-progress
		if !ok {
			return membersFetchedMsg(m.fetched, m.fetchErr)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) writeExport() tea.Cmd {
	export := m.selected
	return func() tea.Msg {
		if export == nil {
			return exportCompleteMsg("", fmt.Errorf("no group selected"))
		}
		path, err := formatter.WriteExport(export, m.opts.Format, m.opts.OutputDir)
		if err == nil {
			m.logger.Info("exported group", "group", export.Path, "file", path)
		}
		return exportCompleteMsg(path, err)
	}
}

func (m *Model) helpView() string {
	return styles.help.Render(m.help.ShortHelpView(m.keys.forView(m.view)))
}

func (m *Model) renderGroupList() string {
	return fmt.Sprintf("%s\n\n%s", m.groupList.View(), m.helpView())
}

func (m *Model) renderFetch() string {
	title := styles.title.Render("Fetching Members")

	status := m.progress.Message
	if status == "" {
		status = "Starting..."
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, status, m.helpView())
}

func (m *Model) renderMemberList() string {
	return fmt.Sprintf("%s\n\n%s", m.memberList.View(), m.helpView())
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return styles.err.Render("No group selected")
	}
	file := formatter.FileName(m.selected.Key, m.opts.Format)
	title := styles.title.Render(fmt.Sprintf("Export %s?", m.selected.Path))
	info := fmt.Sprintf("\nMembers: %d\nFile: %s\n", len(m.selected.Members), file)

	return fmt.Sprintf("%s\n%s\n%s", title, info, m.helpView())
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("✓ Export Complete!"))
	b.WriteString("\n\n")
	if m.selected != nil {
		fmt.Fprintf(&b, "Group: %s (%d members)\n", m.selected.Path, len(m.selected.Members))
		if m.selected.Key.Type != models.GroupTypeList {
			b.WriteString(styles.warn.Render("Read-only group: this snapshot can be diffed but not imported."))
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "File: %s\n\n", styles.As(m.resultPath, lipgloss.Color("#1DA1F2")))
	b.WriteString(m.helpView())
	return b.String()
}
