// package formatter renders group memberships as snapshot JSON, CSV, Markdown and plain text, and parses snapshots back
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
)

// Format selects an export renderer.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat accepts a format name, defaulting to JSON for an empty string.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension is the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// MarshalSnapshot encodes members as the canonical snapshot: a JSON array of {userId, screenName, name}
// indented with two spaces and terminated by a newline. An empty membership encodes as [].
func MarshalSnapshot(members []models.Member) ([]byte, error) {
	if members == nil {
		members = []models.Member{}
	}
	data, err := shared.MarshalJSON(members, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseSnapshot decodes a snapshot written by [MarshalSnapshot] or edited by hand.
//
// Every entry needs a userId or a screenName. Two entries for the same account fail with [shared.ErrDuplicateMember].
func ParseSnapshot(data []byte) ([]models.Member, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", shared.ErrInvalidSnapshot)
	}

	var members []models.Member
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&members); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidSnapshot, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", shared.ErrInvalidSnapshot)
	}

	seen := make(map[string]int, len(members))
	for i := range members {
		m := &members[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Handle = strings.TrimPrefix(strings.TrimSpace(m.Handle), "@")

		if m.ID == "" && m.Handle == "" {
			return nil, fmt.Errorf("%w: entry %d has neither userId nor screenName", shared.ErrInvalidSnapshot, i+1)
		}

		for _, k := range identities(*m) {
			if prev, ok := seen[k]; ok {
				return nil, fmt.Errorf("%w: entries %d and %d are both %s", shared.ErrDuplicateMember, prev+1, i+1, m)
			}
			seen[k] = i
		}
	}

	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// identities returns every key an entry can be matched by, so an id-only and a handle-only entry for
// different accounts never collide while two entries sharing either one do.
func identities(m models.Member) []string {
	var keys []string
	if m.ID != "" {
		keys = append(keys, "id:"+m.ID)
	}
	if m.Handle != "" {
		keys = append(keys, "handle:"+strings.ToLower(m.Handle))
	}
	return keys
}

// ExportToCSV converts a GroupExport to CSV with columns userId, screenName, name.
func ExportToCSV(export *models.GroupExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"userId", "screenName", "name"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range export.Members {
		if err := writer.Write([]string{m.ID, m.Handle, m.DisplayName}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a GroupExport to a Markdown document linking each member's profile.
func ExportToMarkdown(export *models.GroupExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Path)
	fmt.Fprintf(&buf, "**Type**: %s\n", export.Key.Type)
	fmt.Fprintf(&buf, "**Members**: %d\n", len(export.Members))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	buf.WriteString("\n## Members\n\n")
	for i, m := range export.Members {
		if m.Handle == "" {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, m)
			continue
		}
		fmt.Fprintf(&buf, "%d. [@%s](https://twitter.com/%s)", i+1, m.Handle, m.Handle)
		if m.DisplayName != "" {
			fmt.Fprintf(&buf, " %s", m.DisplayName)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a GroupExport to plain text, one member per line.
func ExportToText(export *models.GroupExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Group: %s\n", export.Path)
	fmt.Fprintf(&buf, "Members: %d\n\n", len(export.Members))

	for i, m := range export.Members {
		if m.DisplayName != "" {
			fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, m, m.DisplayName)
		} else {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, m)
		}
	}

	return buf.Bytes(), nil
}

// DiffToText renders a diff as +/- lines, removals first.
func DiffToText(diff models.MembershipDiff) []byte {
	var buf bytes.Buffer
	for _, m := range diff.Removed {
		fmt.Fprintf(&buf, "- %s\n", describe(m))
	}
	for _, m := range diff.Added {
		fmt.Fprintf(&buf, "+ %s\n", describe(m))
	}
	return buf.Bytes()
}

func describe(m models.Member) string {
	if m.DisplayName != "" {
		return fmt.Sprintf("%s (%s)", m, m.DisplayName)
	}
	return m.String()
}

// Render encodes export in the given format.
func Render(export *models.GroupExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	default:
		return MarshalSnapshot(export.Members)
	}
}

// FileName derives a file name from the group key, e.g. vain0x_my-list.json.
func FileName(key models.GroupKey, format Format) string {
	return key.OwnerHandle + "_" + key.Slug + format.Extension()
}

// WriteExport renders export into dir and returns the path written.
func WriteExport(export *models.GroupExport, format Format, dir string) (string, error) {
	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", export.Path, err)
	}

	path := filepath.Join(dir, FileName(export.Key, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
