package tasks

import (
	"fmt"

	"github.com/desertthunder/solotter/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchGroups Phase = iota
	FetchMembers
	Compare
	Backup
	RemoveMembers
	AddMembers
	ExportGroup
)

func (p Phase) String() string {
	switch p {
	case FetchGroups:
		return "fetch_groups"
	case FetchMembers:
		return "fetch_members"
	case Compare:
		return "compare"
	case Backup:
		return "backup"
	case RemoveMembers:
		return "remove_members"
	case AddMembers:
		return "add_members"
	case ExportGroup:
		return "export_group"
	default:
		return ""
	}
}

func fetchGroupsUpdate(handle string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGroups,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching groups owned by @%s...", handle),
	}
}

func fetchMembersUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMembers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching members of %s...", path),
	}
}

func fetchedMembersUpdate(step, total int, export *models.GroupExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMembers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d members in %s", len(export.Members), export.Path),
		Data:    export,
	}
}

func compareUpdate(diff models.MembershipDiff) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d to remove, %d to add", len(diff.Removed), len(diff.Added)),
		Data:    diff,
	}
}

func backupUpdate(snapshot *models.PersistedSnapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Backup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved current membership as snapshot #%d", snapshot.Sequence()),
		Data:    snapshot,
	}
}

func patchUpdate(diff models.MembershipDiff, path string) ProgressUpdate {
	phase := AddMembers
	if len(diff.Removed) > 0 {
		phase = RemoveMembers
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    0,
		Total:   len(diff.Removed) + len(diff.Added),
		Message: fmt.Sprintf("Updating %s...", path),
	}
}

func exportingGroupUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGroup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, path),
	}
}

func exportCompletedUpdate(step, total int, path string, members int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGroup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d members)", step, total, path, members),
	}
}

func exportFailedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGroup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, path, err),
	}
}
