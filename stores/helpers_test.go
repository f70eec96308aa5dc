package stores

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"salonova/backend"
)

// fakeAuth stands in for the session store: a static token plus a counter
// of expire-hook invocations.
type fakeAuth struct {
	mu      sync.Mutex
	token   string
	expired int
}

func (f *fakeAuth) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAuth) Expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired++
	f.token = ""
}

func (f *fakeAuth) expiredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expired
}

// requestLog records every request the store issued, as "METHOD /path".
type requestLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, r.Method+" "+r.URL.Path)
}

func (l *requestLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// newTestClient wires a backend client against the given handler, logging
// every request on the way through.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*backend.Client, *fakeAuth, *requestLog) {
	t.Helper()
	auth := &fakeAuth{token: "test-token"}
	log := &requestLog{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	cl := backend.NewClient(ts.URL, auth, auth.Expire, backend.WithHTTPClient(ts.Client()))
	return cl, auth, log
}

// writeList responds with the backend's list envelope.
func writeList(w http.ResponseWriter, results any, total int) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, listBody(results, total))
}

func listBody(results any, total int) string {
	data, _ := json.Marshal(map[string]any{
		"status": "success",
		"data":   map[string]any{"results": results, "total": total},
	})
	return string(data)
}
