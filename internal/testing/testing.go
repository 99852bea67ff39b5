// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/solotter/internal/models"
)

// Call is one request observed by [MockClient].
type Call struct {
	Method   string
	Endpoint string
	Params   url.Values
}

// Responder produces the JSON-encodable response for a request, or an error.
type Responder func(endpoint string, params url.Values) (any, error)

// MockClient is a test double for groups.Client, the client the engine and groups consume.
//
// Responses are round-tripped through encoding/json into the caller's out value, so callers' unexported
// response types decode exactly as they would from the wire.
type MockClient struct {
	mu    sync.Mutex
	calls []Call

	OnGet  Responder
	OnPost Responder
}

func (m *MockClient) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return m.do(ctx, http.MethodGet, endpoint, params, out, m.OnGet)
}

func (m *MockClient) Post(ctx context.Context, endpoint string, params url.Values, out any) error {
	return m.do(ctx, http.MethodPost, endpoint, params, out, m.OnPost)
}

func (m *MockClient) do(ctx context.Context, method, endpoint string, params url.Values, out any, respond Responder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.calls = append(m.calls, Call{Method: method, Endpoint: endpoint, Params: cloneValues(params)})
	m.mu.Unlock()

	if respond == nil {
		return nil
	}
	resp, err := respond(endpoint, params)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Calls returns every recorded request in order.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsTo returns the recorded requests for endpoint.
func (m *MockClient) CallsTo(endpoint string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// UsersPage builds a users/next_cursor response body in Twitter's shape.
func UsersPage(next int64, members ...models.Member) map[string]any {
	users := make([]map[string]any, len(members))
	for i, m := range members {
		users[i] = map[string]any{"id_str": m.ID, "screen_name": m.Handle, "name": m.DisplayName}
	}
	return map[string]any{"users": users, "next_cursor": next}
}

// ServeUsers answers a cursor-paginated users endpoint from members, pageSize at a time.
// Cursors are offsets into members.
func ServeUsers(members []models.Member, pageSize int) func(params url.Values) (any, error) {
	return func(params url.Values) (any, error) {
		start, err := strconv.Atoi(params.Get("cursor"))
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", params.Get("cursor"))
		}
		if start < 0 {
			start = 0
		}

		end := min(start+pageSize, len(members))
		next := int64(end)
		if end >= len(members) {
			next = 0
		}
		return UsersPage(next, members[start:end]...), nil
	}
}

// ListsPage builds a lists/ownerships response for the given slugs.
func ListsPage(next int64, slugs ...string) map[string]any {
	lists := make([]map[string]any, len(slugs))
	for i, slug := range slugs {
		lists[i] = map[string]any{"id_str": strconv.Itoa(i + 1), "slug": slug, "name": slug, "member_count": 0, "mode": "private"}
	}
	return map[string]any{"lists": lists, "next_cursor": next}
}

// Members builds n members named user0..user(n-1) with ids starting at 1000.
func Members(n int) []models.Member {
	out := make([]models.Member, n)
	for i := range out {
		out[i] = models.Member{
			ID:          strconv.Itoa(1000 + i),
			Handle:      fmt.Sprintf("user%d", i),
			DisplayName: fmt.Sprintf("User %d", i),
		}
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
