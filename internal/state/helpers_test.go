package state

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

// request is one call received by the fake remote boundary.
type request struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeRemote is an httptest stand-in for the remote POS API. Routes are keyed by "METHOD /path".
type fakeRemote struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []request
}

func newFakeRemote(t *testing.T) (*fakeRemote, *upstream.Client) {
	t.Helper()
	f := &fakeRemote{t: t, routes: make(map[string]http.HandlerFunc)}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	client := upstream.New(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
	return f, client
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	req := request{Method: r.Method, Path: r.URL.Path}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &req.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, req)
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeRemote) handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

// json registers a route answering with a fixed JSON body.
func (f *fakeRemote) json(route string, status int, body string, headers ...string) {
	f.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for i := 0; i+1 < len(headers); i += 2 {
			w.Header().Set(headers[i], headers[i+1])
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeRemote) fail(route string) {
	f.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
}

// callsTo returns the recorded calls for a route.
func (f *fakeRemote) callsTo(route string) []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []request
	for _, c := range f.calls {
		if c.Method+" "+c.Path == route {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingDispatcher keeps detached tasks so tests can run them explicitly.
type recordingDispatcher struct {
	mu    sync.Mutex
	tasks []worker.Task
}

func (d *recordingDispatcher) Dispatch(task worker.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, task)
}

func (d *recordingDispatcher) Tasks() []worker.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]worker.Task(nil), d.tasks...)
}
