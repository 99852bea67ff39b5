package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/shared"
	th "github.com/desertthunder/solotter/internal/testing"
)

func testExport() *models.GroupExport {
	return &models.GroupExport{
		Key:  models.GroupKey{Type: models.GroupTypeList, OwnerHandle: "vain0x", Slug: "tech"},
		Path: "@vain0x/tech",
		Members: []models.Member{
			{ID: "1", Handle: "alice", DisplayName: "Alice, Esq."},
			{ID: "2", Handle: "bob", DisplayName: "Bob"},
		},
		ExportedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("MarshalSnapshot Format", func(t *testing.T) {
		data, err := MarshalSnapshot(testExport().Members)
		if err != nil {
			t.Fatalf("MarshalSnapshot failed: %v", err)
		}

		want := `[
  {
    "userId": "1",
    "screenName": "alice",
    "name": "Alice, Esq."
  },
  {
    "userId": "2",
    "screenName": "bob",
    "name": "Bob"
  }
]
`
		if diff := cmp.Diff(want, string(data)); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("MarshalSnapshot Empty", func(t *testing.T) {
		data, err := MarshalSnapshot(nil)
		if err != nil {
			t.Fatalf("MarshalSnapshot failed: %v", err)
		}
		if string(data) != "[]\n" {
			t.Errorf("expected empty array, got %q", data)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		members := testExport().Members
		data, err := MarshalSnapshot(members)
		if err != nil {
			t.Fatalf("MarshalSnapshot failed: %v", err)
		}
		got, err := ParseSnapshot(data)
		if err != nil {
			t.Fatalf("ParseSnapshot failed: %v", err)
		}
		if diff := cmp.Diff(members, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ParseSnapshot Hand Edited", func(t *testing.T) {
		data := []byte(`[
			{"userId": "1", "screenName": "alice", "name": "Alice"},
			{"screenName": " @carol "},
			{"userId": "99"}
		]`)

		got, err := ParseSnapshot(data)
		if err != nil {
			t.Fatalf("ParseSnapshot failed: %v", err)
		}
		want := []models.Member{
			{ID: "1", Handle: "alice", DisplayName: "Alice"},
			{Handle: "carol"},
			{ID: "99"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("members mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ParseSnapshot Empty Array", func(t *testing.T) {
		got, err := ParseSnapshot([]byte("[]"))
		if err != nil {
			t.Fatalf("ParseSnapshot failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("ParseSnapshot Errors", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			want error
		}{
			{"empty document", "  \n", shared.ErrInvalidSnapshot},
			{"not an array", `{"userId": "1"}`, shared.ErrInvalidSnapshot},
			{"malformed", `[{"userId": "1",]`, shared.ErrInvalidSnapshot},
			{"trailing data", `[] []`, shared.ErrInvalidSnapshot},
			{"anonymous entry", `[{"name": "nobody"}]`, shared.ErrInvalidSnapshot},
			{"duplicate id", `[{"userId": "1", "screenName": "a"}, {"userId": "1", "screenName": "b"}]`, shared.ErrDuplicateMember},
			{"duplicate handle", `[{"screenName": "Alice"}, {"screenName": "alice"}]`, shared.ErrDuplicateMember},
			{"handle matches id entry", `[{"userId": "1", "screenName": "alice"}, {"screenName": "ALICE"}]`, shared.ErrDuplicateMember},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := ParseSnapshot([]byte(tt.data)); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestExporters(t *testing.T) {
	export := testExport()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "userId,screenName,name\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `1,alice,"Alice, Esq."`) {
			t.Errorf("CSV should quote names containing commas, got: %s", output)
		}
		if strings.Count(output, "\n") != 3 {
			t.Errorf("expected 3 lines, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# @vain0x/tech",
			"**Type**: list",
			"**Members**: 2",
			"**Exported**: 2024-05-01 12:00 UTC",
			"1. [@alice](https://twitter.com/alice) Alice, Esq.",
			"2. [@bob](https://twitter.com/bob) Bob",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Group: @vain0x/tech") || !strings.Contains(output, "2. @bob (Bob)") {
			t.Errorf("unexpected text output:\n%s", output)
		}
	})

	t.Run("DiffToText", func(t *testing.T) {
		diff := models.MembershipDiff{
			Added:   []models.Member{{Handle: "carol"}},
			Removed: []models.Member{{ID: "2", Handle: "bob", DisplayName: "Bob"}},
		}
		want := "- @bob (Bob)\n+ @carol\n"
		if got := string(DiffToText(diff)); got != want {
			t.Errorf("DiffToText() = %q, want %q", got, want)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"JSON", FormatJSON},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	export := testExport()

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			path, err := WriteExport(export, format, dir)
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}
			if filepath.Base(path) != "vain0x_tech"+format.Extension() {
				t.Errorf("unexpected file name %s", path)
			}
			th.AssertFileExists(t, path)
		})
	}

	t.Run("json file is a snapshot", func(t *testing.T) {
		content := th.MustReadFile(t, filepath.Join(dir, "vain0x_tech.json"))
		members, err := ParseSnapshot([]byte(content))
		if err != nil {
			t.Fatalf("written JSON should parse as snapshot: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members, got %d", len(members))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := WriteExport(export, FormatJSON, filepath.Join(dir, "missing", "nested")); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := &Manifest{
		Handle:    "vain0x",
		Format:    FormatCSV,
		Succeeded: 1,
		Failed:    1,
		Groups: []ManifestEntry{
			{Path: "@vain0x/_friends", Type: "friends", MemberCount: 3, File: "vain0x__friends.csv"},
			{Path: "@vain0x/tech", Type: "list", Error: "boom"},
		},
	}

	if err := WriteManifest(m, path); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	var decoded Manifest
	if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(m.Groups, decoded.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}
