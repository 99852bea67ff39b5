package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/formatter"
	"github.com/desertthunder/solotter/internal/models"
	"github.com/desertthunder/solotter/internal/repositories"
	"github.com/desertthunder/solotter/internal/services"
	"github.com/desertthunder/solotter/internal/shared"
	tu "github.com/desertthunder/solotter/internal/testing"
)

// fakeTwitter serves the v1.1 endpoints the CLI uses from fixed memberships.
type fakeTwitter struct {
	mu      sync.Mutex
	groups  map[string][]models.Member // "_friends", "_followers" or a list slug
	slugs   []string
	posts   []*http.Request
	failing map[string]int // endpoint to forced status code
}

func (f *fakeTwitter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	endpoint := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")
	q := r.URL.Query()

	f.mu.Lock()
	defer f.mu.Unlock()

	if status, ok := f.failing[endpoint]; ok {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"errors":[{"code":%d,"message":%q}]}`, status, http.StatusText(status))
		return
	}
	if r.Method == http.MethodPost {
		f.posts = append(f.posts, r)
	}

	switch endpoint {
	case "friends/list":
		f.writeUsers(w, f.groups["_friends"])
	case "followers/list":
		f.writeUsers(w, f.groups["_followers"])
	case "lists/members":
		f.writeUsers(w, f.groups[q.Get("slug")])
	case "lists/ownerships":
		json.NewEncoder(w).Encode(tu.ListsPage(0, f.slugs...))
	case "lists/members/destroy_all", "lists/members/create_all":
		w.Write([]byte(`{"slug":"` + q.Get("slug") + `"}`))
	case "account/verify_credentials":
		w.Write([]byte(`{"id_str":"1","screen_name":"vain0x","name":"Vain","friends_count":2,"followers_count":3,"listed_count":1}`))
	case "statuses/update":
		w.Write([]byte(`{"id_str":"42","text":"` + q.Get("status") + `"}`))
	case "users/show":
		json.NewEncoder(w).Encode(map[string]string{"screen_name": q.Get("screen_name"), "count": q.Get("count")})
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"code":34,"message":"Sorry, that page does not exist."}]}`))
	}
}

func (f *fakeTwitter) writeUsers(w http.ResponseWriter, members []models.Member) {
	json.NewEncoder(w).Encode(tu.UsersPage(0, members...))
}

func (f *fakeTwitter) postsTo(endpoint string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*http.Request
	for _, r := range f.posts {
		if r.URL.Path == "/"+endpoint+".json" {
			out = append(out, r)
		}
	}
	return out
}

func newFakeTwitter() *fakeTwitter {
	all := tu.Members(4)
	return &fakeTwitter{
		groups: map[string][]models.Member{
			"_friends":   all[0:2],
			"_followers": all,
			"my-list":    all[0:3],
			"other":      {},
		},
		slugs:   []string{"my-list", "other"},
		failing: map[string]int{},
	}
}

func newTestRunner(t *testing.T, fake *fakeTwitter) (*Runner, *bytes.Buffer, *repositories.SnapshotRepository) {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	twitter := services.NewTwitterService(srv.Client(), services.WithBaseURL(srv.URL), services.WithMaxRetries(0))

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if _, err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := repositories.NewSnapshotRepository(db)

	config := shared.DefaultConfig()
	config.Credentials.Twitter.ScreenName = "vain0x"
	config.Credentials.Twitter.AccessToken = "token"
	config.Credentials.Twitter.AccessSecret = "secret"

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Twitter:    twitter,
		Snapshots:  store,
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
	})
	return runner, output, store
}

// run executes args against a fresh command tree wired to r.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:     "solotter",
		Flags:    r.globalFlags(),
		Before:   r.Before,
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"solotter"}, args...))
}

func writeSnapshotFile(t *testing.T, members []models.Member) string {
	t.Helper()
	data, err := formatter.MarshalSnapshot(members)
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			twitter := services.NewTwitterService(nil)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Twitter:    twitter,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.twitter != twitter {
				t.Error("expected twitter to be set")
			}
			if runner.configName() != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configName())
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.configName() != "config.toml" {
				t.Errorf("expected default config name, got %s", runner.configName())
			}
		})
	})

	t.Run("without twitter client", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})

		err := run(runner, "groups", "list")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("register", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())

		var names []string
		for _, c := range runner.register() {
			names = append(names, c.Name)
		}
		want := "setup auth tweet groups snapshots api tui"
		if got := strings.Join(names, " "); got != want {
			t.Errorf("expected commands %q, got %q", want, got)
		}
	})
}

func TestGroupsCommands(t *testing.T) {
	all := tu.Members(4)

	t.Run("list", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "groups", "list", "--json"); err != nil {
			t.Fatalf("groups list failed: %v", err)
		}

		var views []groupView
		if err := json.Unmarshal(output.Bytes(), &views); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, output.String())
		}
		want := []groupView{
			{Path: "@vain0x/_friends", Type: "friends"},
			{Path: "@vain0x/_followers", Type: "followers"},
			{Path: "@vain0x/my-list", Type: "list", Mutable: true},
			{Path: "@vain0x/other", Type: "list", Mutable: true},
		}
		if len(views) != len(want) {
			t.Fatalf("expected %d groups, got %d", len(want), len(views))
		}
		for i := range want {
			if views[i] != want[i] {
				t.Errorf("group %d: expected %+v, got %+v", i, want[i], views[i])
			}
		}
	})

	t.Run("export to file records history", func(t *testing.T) {
		runner, output, store := newTestRunner(t, newFakeTwitter())
		file := filepath.Join(t.TempDir(), "out.json")

		if err := run(runner, "groups", "export", "--output", file, "my-list"); err != nil {
			t.Fatalf("groups export failed: %v", err)
		}

		members, err := formatter.ParseSnapshot([]byte(tu.MustReadFile(t, file)))
		if err != nil || len(members) != 3 {
			t.Fatalf("unexpected export file: %v %v", members, err)
		}
		if !strings.Contains(output.String(), "Members: 3") {
			t.Errorf("expected summary, got %s", output.String())
		}

		snapshots, err := store.List(map[string]any{"kind": models.SnapshotExport})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(snapshots) != 1 || snapshots[0].GroupPath() != "@vain0x/my-list" {
			t.Errorf("expected one recorded export, got %d", len(snapshots))
		}
	})

	t.Run("export to stdout as csv", func(t *testing.T) {
		runner, output, store := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "groups", "export", "--format", "csv", "--no-history", "@vain0x/_followers"); err != nil {
			t.Fatalf("groups export failed: %v", err)
		}
		if !strings.Contains(output.String(), "user3") {
			t.Errorf("expected csv rows, got %s", output.String())
		}
		if snapshots, _ := store.List(nil); len(snapshots) != 0 {
			t.Errorf("expected no history with --no-history, got %d", len(snapshots))
		}
	})

	t.Run("export without path", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())
		if err := run(runner, "groups", "export"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("diff", func(t *testing.T) {
		fake := newFakeTwitter()
		runner, output, _ := newTestRunner(t, fake)
		file := writeSnapshotFile(t, all[1:4])

		if err := run(runner, "groups", "diff", "--from", file, "my-list"); err != nil {
			t.Fatalf("groups diff failed: %v", err)
		}

		out := output.String()
		for _, want := range []string{"1 to remove, 1 to add", "- @user0 (User 0)", "+ @user3 (User 3)"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if n := len(fake.posts); n != 0 {
			t.Errorf("diff sent %d mutations", n)
		}
	})

	t.Run("import", func(t *testing.T) {
		fake := newFakeTwitter()
		runner, output, store := newTestRunner(t, fake)
		file := writeSnapshotFile(t, all[1:4])

		if err := run(runner, "groups", "import", "--from", file, "my-list"); err != nil {
			t.Fatalf("groups import failed: %v", err)
		}

		removals := fake.postsTo("lists/members/destroy_all")
		if len(removals) != 1 || removals[0].URL.Query().Get("user_id") != "1000" {
			t.Errorf("unexpected removals %v", removals)
		}
		additions := fake.postsTo("lists/members/create_all")
		if len(additions) != 1 || additions[0].URL.Query().Get("user_id") != "1003" {
			t.Errorf("unexpected additions %v", additions)
		}

		out := output.String()
		for _, want := range []string{"Import Complete", "Removed: 1/1", "Added: 1/1", "solotter snapshots restore 1"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}

		backup, err := store.Latest("@vain0x/my-list", models.SnapshotPreImport)
		if err != nil {
			t.Fatalf("expected pre-import snapshot: %v", err)
		}
		if backup.MemberCount() != 3 {
			t.Errorf("expected backup of 3 members, got %d", backup.MemberCount())
		}
	})

	t.Run("import dry run", func(t *testing.T) {
		fake := newFakeTwitter()
		runner, output, _ := newTestRunner(t, fake)
		file := writeSnapshotFile(t, all[1:4])

		if err := run(runner, "groups", "import", "--dry-run", "--from", file, "my-list"); err != nil {
			t.Fatalf("groups import failed: %v", err)
		}
		if len(fake.posts) != 0 {
			t.Errorf("dry run sent %d mutations", len(fake.posts))
		}
		if !strings.Contains(output.String(), "Dry run") {
			t.Errorf("expected dry run notice, got %s", output.String())
		}
	})

	t.Run("import into followers", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())
		file := writeSnapshotFile(t, all[0:1])

		err := run(runner, "groups", "import", "--from", file, "_followers")
		if !errors.Is(err, shared.ErrUnsupportedOperation) {
			t.Errorf("expected ErrUnsupportedOperation, got %v", err)
		}
	})

	t.Run("import partial failure", func(t *testing.T) {
		fake := newFakeTwitter()
		fake.failing["lists/members/create_all"] = http.StatusForbidden
		runner, output, _ := newTestRunner(t, fake)
		file := writeSnapshotFile(t, all[1:4])

		err := run(runner, "groups", "import", "--from", file, "my-list")
		if !errors.Is(err, shared.ErrRemoteAPI) {
			t.Fatalf("expected ErrRemoteAPI, got %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Import Incomplete") || !strings.Contains(out, "Removed: 1/1") || !strings.Contains(out, "Added: 0/1") {
			t.Errorf("expected partial summary:\n%s", out)
		}
	})

	t.Run("import invalid snapshot", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())
		file := filepath.Join(t.TempDir(), "bad.json")
		os.WriteFile(file, []byte(`[{"name":"nobody"}]`), 0644)

		err := run(runner, "groups", "import", "--from", file, "my-list")
		if !errors.Is(err, shared.ErrInvalidSnapshot) {
			t.Errorf("expected ErrInvalidSnapshot, got %v", err)
		}
	})

	t.Run("bulk export", func(t *testing.T) {
		fake := newFakeTwitter()
		fake.failing["lists/members"] = http.StatusForbidden
		runner, output, _ := newTestRunner(t, fake)
		dir := filepath.Join(t.TempDir(), "backup")

		if err := run(runner, "groups", "bulk-export", "--output", dir, "--rate", "1000"); err != nil {
			t.Fatalf("bulk-export failed: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Exported: 2/4 groups") || !strings.Contains(out, "Failed to export 2 groups") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		tu.AssertDirExists(t, dir)
		tu.AssertFileExists(t, filepath.Join(dir, "vain0x__friends.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})
}

func TestSnapshotsCommands(t *testing.T) {
	t.Run("list show delete", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "groups", "export", "--output", filepath.Join(t.TempDir(), "x.json"), "my-list"); err != nil {
			t.Fatalf("groups export failed: %v", err)
		}

		output.Reset()
		if err := run(runner, "snapshots", "list", "--json"); err != nil {
			t.Fatalf("snapshots list failed: %v", err)
		}
		var views []snapshotView
		if err := json.Unmarshal(output.Bytes(), &views); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(views) != 1 || views[0].Sequence != 1 || views[0].Kind != "export" || views[0].MemberCount != 3 {
			t.Fatalf("unexpected snapshots %+v", views)
		}

		output.Reset()
		if err := run(runner, "snapshots", "show", "1"); err != nil {
			t.Fatalf("snapshots show failed: %v", err)
		}
		members, err := formatter.ParseSnapshot(output.Bytes())
		if err != nil || len(members) != 3 {
			t.Errorf("unexpected snapshot content: %v %v", members, err)
		}

		output.Reset()
		if err := run(runner, "snapshots", "delete", "1"); err != nil {
			t.Fatalf("snapshots delete failed: %v", err)
		}
		if !strings.Contains(output.String(), "Deleted snapshot #1") {
			t.Errorf("unexpected output %s", output.String())
		}

		output.Reset()
		if err := run(runner, "snapshots", "list"); err != nil {
			t.Fatalf("snapshots list failed: %v", err)
		}
		if !strings.Contains(output.String(), "No snapshots recorded yet") {
			t.Errorf("expected empty history, got %s", output.String())
		}
	})

	t.Run("show missing", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())
		if err := run(runner, "snapshots", "show", "99"); !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("restore into another list", func(t *testing.T) {
		fake := newFakeTwitter()
		runner, output, _ := newTestRunner(t, fake)

		if err := run(runner, "groups", "export", "--output", filepath.Join(t.TempDir(), "x.json"), "my-list"); err != nil {
			t.Fatalf("groups export failed: %v", err)
		}
		if err := run(runner, "snapshots", "restore", "--to", "other", "1"); err != nil {
			t.Fatalf("snapshots restore failed: %v", err)
		}

		additions := fake.postsTo("lists/members/create_all")
		if len(additions) != 1 || additions[0].URL.Query().Get("user_id") != "1000,1001,1002" {
			t.Errorf("unexpected additions %v", additions)
		}
		if additions[0].URL.Query().Get("slug") != "other" {
			t.Errorf("expected additions to other, got %s", additions[0].URL.Query().Get("slug"))
		}
		if !strings.Contains(output.String(), "Added: 3/3") {
			t.Errorf("unexpected output:\n%s", output.String())
		}
	})
}

func TestAccountCommands(t *testing.T) {
	t.Run("auth status", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Account: @vain0x (Vain)") {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("auth status rejected token", func(t *testing.T) {
		fake := newFakeTwitter()
		fake.failing["account/verify_credentials"] = http.StatusUnauthorized
		runner, _, _ := newTestRunner(t, fake)

		err := run(runner, "auth", "status")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "auth login") {
			t.Errorf("expected a hint to log in again, got %v", err)
		}
	})

	t.Run("auth status app-only", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())
		runner.config.Credentials.Twitter.AccessToken = ""

		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		if !strings.Contains(output.String(), "No user token") {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("auth logout", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("auth logout failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged out (@vain0x)") {
			t.Errorf("unexpected output %s", output.String())
		}

		saved, err := shared.LoadConfig(runner.configName())
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		creds := saved.Credentials.Twitter
		if creds.AccessToken != "" || creds.AccessSecret != "" || creds.ScreenName != "" {
			t.Errorf("expected token and screen name cleared, got %+v", creds)
		}
		if creds.ConsumerKey != runner.config.Credentials.Twitter.ConsumerKey {
			t.Errorf("consumer key changed: %q", creds.ConsumerKey)
		}

		output.Reset()
		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("second logout failed: %v", err)
		}
		if !strings.Contains(output.String(), "Not logged in") {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("tweet", func(t *testing.T) {
		fake := newFakeTwitter()
		runner, output, _ := newTestRunner(t, fake)

		if err := run(runner, "tweet", "hello"); err != nil {
			t.Fatalf("tweet failed: %v", err)
		}
		posts := fake.postsTo("statuses/update")
		if len(posts) != 1 || posts[0].URL.Query().Get("status") != "hello" {
			t.Errorf("unexpected posts %v", posts)
		}
		if !strings.Contains(output.String(), "Tweeted (id 42)") {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("tweet without user token", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())
		runner.config.Credentials.Twitter.AccessSecret = ""

		if err := run(runner, "tweet", "hello"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("api get", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, newFakeTwitter())

		if err := run(runner, "api", "get", "-p", "screen_name=vain0x", "-p", "count=2", "users/show"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		var got map[string]string
		if err := json.Unmarshal(output.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if got["screen_name"] != "vain0x" || got["count"] != "2" {
			t.Errorf("unexpected response %v", got)
		}
	})

	t.Run("api get unknown endpoint", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, newFakeTwitter())

		err := run(runner, "api", "get", "nope")
		var apiErr *services.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 APIError, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

		if err := runner.writeJSON(map[string]int{"members": 3}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"members\":3}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("writeJSON marshal error", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})

		err := runner.writeJSON(make(chan int), true)
		if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
			t.Errorf("expected marshal error, got %v", err)
		}
	})

	tests := []struct {
		name    string
		writer  io.Writer
		write   func(r *Runner) error
		wantErr string
	}{
		{
			name:    "writeJSON output error",
			writer:  &tu.FWriter{},
			write:   func(r *Runner) error { return r.writeJSON([]string{}, true) },
			wantErr: "failed to write output",
		},
		{
			name:    "writeJSON newline error",
			writer:  ptr(tu.NewLimitedWriter(1, 0, io.Discard)),
			write:   func(r *Runner) error { return r.writeJSON([]string{}, true) },
			wantErr: "failed to write newline",
		},
		{
			name:    "writePlain error",
			writer:  &tu.FWriter{},
			write:   func(r *Runner) error { return r.writePlain("%d members\n", 3) },
			wantErr: "failed to write output",
		},
		{
			name:    "writePlainln error",
			writer:  &tu.FWriter{},
			write:   func(r *Runner) error { return r.writePlainln("done") },
			wantErr: "failed to write output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tt.writer, Logger: shared.NewLogger(io.Discard)})

			err := tt.write(runner)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q error, got %v", tt.wantErr, err)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    string
		wantErr bool
	}{
		{"empty", nil, "", false},
		{"pairs", []string{"slug=my-list", "count=5"}, "count=5&slug=my-list", false},
		{"value with equals", []string{"q=a=b"}, "q=a%3Db", false},
		{"missing equals", []string{"slug"}, "", true},
		{"missing key", []string{"=x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.pairs)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Encode() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Encode())
			}
		})
	}
}

func TestSetupCommands(t *testing.T) {
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, t.TempDir())
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	runner, output, _ := newTestRunner(t, newFakeTwitter())
	runner.config.Database.Path = "./solotter.db"

	if err := run(runner, "setup", "database", "--config", "config.toml"); err != nil {
		t.Fatalf("setup database failed: %v", err)
	}
	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, "solotter.db")
	if !strings.Contains(output.String(), "Applied 1 migration(s)") {
		t.Errorf("unexpected output %s", output.String())
	}

	output.Reset()
	if err := run(runner, "setup", "database", "--config", "config.toml"); err != nil {
		t.Fatalf("second setup failed: %v", err)
	}
	if !strings.Contains(output.String(), "up to date") {
		t.Errorf("expected idempotent setup, got %s", output.String())
	}

	output.Reset()
	if err := run(runner, "setup", "rollback"); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
	if !strings.Contains(output.String(), "Rolled back") {
		t.Errorf("unexpected output %s", output.String())
	}
}
