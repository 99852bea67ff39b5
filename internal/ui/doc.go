// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for backing up groups:
//  1. [GroupListView] : Browse friends, followers and owned lists
//  2. [FetchView] : Monitor member fetching progress
//  3. [MemberListView] : Preview members before export
//  4. [ConfirmView] : Confirm writing the snapshot file
//  5. [ResultView] : Display the written file or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the GroupEngine, providing non-blocking status reporting while pages load.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
