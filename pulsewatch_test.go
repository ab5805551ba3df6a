package pulsewatch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const (
	idleBody   = `{"success":true,"data":{"status":"idle","current_action":"none","last_updated":"2024-01-01T00:00:00Z"}}`
	activeBody = `{"success":true,"data":{"status":"active","current_action":"reading papers","last_updated":"2024-01-01T00:05:00Z"}}`
)

// fakeBackend serves the two research backend endpoints from memory.
type fakeBackend struct {
	status      atomic.Value // string
	triggerCode atomic.Int32
	gets        atomic.Int32
	posts       atomic.Int32
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/status":
		f.gets.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.status.Load().(string))
	case r.Method == http.MethodPost && r.URL.Path == "/trigger-research":
		f.posts.Add(1)
		w.WriteHeader(int(f.triggerCode.Load()))
	default:
		http.NotFound(w, r)
	}
}

func newBackend(t *testing.T, body string) (*httptest.Server, *fakeBackend) {
	t.Helper()

	fb := &fakeBackend{}
	fb.status.Store(body)
	fb.triggerCode.Store(http.StatusAccepted)

	ts := httptest.NewServer(fb)
	t.Cleanup(ts.Close)
	return ts, fb
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newManualWatcher returns a watcher whose ticks are fired by the test.
func newManualWatcher(t *testing.T, baseURL string, opts ...Option) (*Watcher, *ManualTimer) {
	t.Helper()

	timer := NewManualTimer()
	opts = append([]Option{
		WithBaseURL(baseURL),
		WithTimer(timer),
		WithLogger(discardLogger()),
	}, opts...)

	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(w.Close)
	return w, timer
}

func TestWatcher_StartFetchesImmediately(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	w, _ := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Stop()
	w.Wait()

	if fb.gets.Load() != 1 {
		t.Fatalf("gets = %d, want 1", fb.gets.Load())
	}

	state := w.State()
	if !state.Loaded() {
		t.Fatal("State().Loaded() = false after successful fetch")
	}
	snap := state.Snapshot
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if snap.Status != StatusIdle || snap.CurrentAction != "none" || !snap.LastUpdated.Equal(want) {
		t.Errorf("Snapshot = %+v", snap)
	}
	if state.Error != "" {
		t.Errorf("Error = %q, want empty", state.Error)
	}

	if len(state.Logs) != 2 {
		t.Fatalf("len(Logs) = %d, want 2", len(state.Logs))
	}
	if state.Logs[0].Type != LogSuccess || state.Logs[0].Message != "Status updated: idle" {
		t.Errorf("Logs[0] = %+v", state.Logs[0])
	}
	if state.Logs[1].Type != LogInfo || state.Logs[1].Message != "Fetching status..." {
		t.Errorf("Logs[1] = %+v", state.Logs[1])
	}
	if state.Logs[0].ID == "" || state.Logs[0].ID == state.Logs[1].ID {
		t.Errorf("log IDs should be unique and non-empty: %q %q", state.Logs[0].ID, state.Logs[1].ID)
	}
}

func TestWatcher_TicksAtInterval(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	w, timer := newManualWatcher(t, ts.URL, WithPollingInterval(500*time.Millisecond))

	w.Start(context.Background())
	for i := 0; i < 3; i++ {
		timer.Fire()
	}
	w.Stop()
	w.Wait()

	if got := fb.gets.Load(); got != 4 {
		t.Errorf("gets = %d, want 4 (immediate + 3 ticks)", got)
	}
	if iv := timer.Intervals(); len(iv) != 1 || iv[0] != 500*time.Millisecond {
		t.Errorf("Intervals() = %v, want [500ms]", iv)
	}
}

func TestWatcher_FailureKeepsSnapshot(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	w, timer := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Wait()

	fb.status.Store(`{"success":false}`)
	timer.Fire()
	w.Stop()
	w.Wait()

	state := w.State()
	if state.Snapshot == nil || state.Snapshot.Status != StatusIdle {
		t.Fatalf("Snapshot = %+v, want stale idle snapshot", state.Snapshot)
	}
	if state.Error == "" {
		t.Fatal("Error is empty after failed fetch")
	}
	if state.Logs[0].Type != LogError || !strings.HasPrefix(state.Logs[0].Message, "Error: ") {
		t.Errorf("Logs[0] = %+v, want error entry", state.Logs[0])
	}
}

func TestWatcher_LogCapacity(t *testing.T) {
	ts, _ := newBackend(t, idleBody)
	w, timer := newManualWatcher(t, ts.URL, WithLogCapacity(5))

	w.Start(context.Background())
	for i := 0; i < 10; i++ {
		timer.Fire()
		w.Wait()
	}
	w.Stop()
	w.Wait()

	if got := len(w.State().Logs); got != 5 {
		t.Errorf("len(Logs) = %d, want 5", got)
	}
}

func TestWatcher_HeadersAndPaths(t *testing.T) {
	var gotAuth, gotPath atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotPath.Store(r.URL.Path)
		_, _ = io.WriteString(w, idleBody)
	}))
	defer ts.Close()

	w, _ := newManualWatcher(t, ts.URL,
		WithHeaders("Authorization", "Bearer secret"),
		WithStatusPath("/api/v2/status"),
	)

	w.Start(context.Background())
	w.Stop()
	w.Wait()

	if gotAuth.Load() != "Bearer secret" {
		t.Errorf("Authorization = %v, want Bearer secret", gotAuth.Load())
	}
	if gotPath.Load() != "/api/v2/status" {
		t.Errorf("path = %v, want /api/v2/status", gotPath.Load())
	}
}

func TestWatcher_Trigger(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	w, _ := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Wait()

	if !w.Trigger(context.Background()) {
		t.Fatal("Trigger() = false while idle")
	}
	if fb.posts.Load() != 1 {
		t.Errorf("posts = %d, want 1", fb.posts.Load())
	}

	logs := w.State().Logs
	if logs[0].Message != "Research cycle triggered" || logs[0].Type != LogSuccess {
		t.Errorf("Logs[0] = %+v", logs[0])
	}
	if logs[1].Message != "Triggering new research cycle..." || logs[1].Type != LogInfo {
		t.Errorf("Logs[1] = %+v", logs[1])
	}
}

func TestWatcher_TriggerSuppressedWhileActive(t *testing.T) {
	ts, fb := newBackend(t, activeBody)
	w, _ := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Wait()
	before := len(w.State().Logs)

	if w.Trigger(context.Background()) {
		t.Fatal("Trigger() = true while active")
	}
	if fb.posts.Load() != 0 {
		t.Errorf("posts = %d, want 0", fb.posts.Load())
	}
	if after := len(w.State().Logs); after != before {
		t.Errorf("log grew from %d to %d on suppressed trigger", before, after)
	}
	if !w.State().Active() {
		t.Error("State().Active() = false for active backend")
	}
}

func TestWatcher_TriggerFailure(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	fb.triggerCode.Store(http.StatusInternalServerError)
	w, _ := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Wait()

	if !w.Trigger(context.Background()) {
		t.Fatal("Trigger() = false; failures should still report the request as sent")
	}

	state := w.State()
	if state.Error != "Failed to trigger research" {
		t.Errorf("Error = %q, want %q", state.Error, "Failed to trigger research")
	}
	if state.Logs[0].Type != LogError || !strings.HasPrefix(state.Logs[0].Message, "Failed to trigger research: ") {
		t.Errorf("Logs[0] = %+v", state.Logs[0])
	}
	if state.Snapshot == nil || state.Snapshot.Status != StatusIdle {
		t.Errorf("Snapshot = %+v, trigger must not modify it", state.Snapshot)
	}
}

func TestWatcher_StateCallbacks(t *testing.T) {
	ts, _ := newBackend(t, idleBody)

	var first, second atomic.Int32
	var last atomic.Value

	w, _ := newManualWatcher(t, ts.URL,
		WithStateCallback(func(s State) {
			first.Add(1)
			panic("boom")
		}),
		WithStateCallback(func(s State) {
			second.Add(1)
			last.Store(s)
		}),
	)

	w.Start(context.Background())
	w.Stop()
	w.Wait()

	// "Fetching status..." and the success each produce one change
	if first.Load() != 2 || second.Load() != 2 {
		t.Errorf("callback counts = %d, %d, want 2, 2", first.Load(), second.Load())
	}
	s, _ := last.Load().(State)
	if !s.Loaded() {
		t.Error("last callback state should include the snapshot")
	}
}

func TestWatcher_Subscribe(t *testing.T) {
	ts, _ := newBackend(t, idleBody)
	w, _ := newManualWatcher(t, ts.URL)

	ch, cancel := w.Subscribe()

	w.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.Loaded() {
				cancel()
				cancel()
				// channel is closed once the subscription ends
				for range ch {
				}
				return
			}
		case <-deadline:
			t.Fatal("no loaded state received")
		}
	}
}

func TestWatcher_StateIsCopy(t *testing.T) {
	ts, _ := newBackend(t, idleBody)
	w, _ := newManualWatcher(t, ts.URL)

	w.Start(context.Background())
	w.Stop()
	w.Wait()

	s := w.State()
	s.Snapshot.Status = StatusError
	s.Logs[0].Message = "mutated"

	again := w.State()
	if again.Snapshot.Status != StatusIdle || again.Logs[0].Message == "mutated" {
		t.Error("modifying a returned State changed the watcher")
	}
}

func TestWatcher_ContextCancelStopsPolling(t *testing.T) {
	ts, fb := newBackend(t, idleBody)
	w, timer := newManualWatcher(t, ts.URL)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	w.Wait()
	cancel()

	// AfterFunc runs Stop on its own goroutine
	deadline := time.Now().Add(2 * time.Second)
	for timer.Active() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if timer.Active() != 0 {
		t.Fatal("timer still active after context cancellation")
	}

	before := fb.gets.Load()
	timer.Fire()
	w.Wait()
	if got := fb.gets.Load(); got != before {
		t.Errorf("gets = %d after cancel, want %d", got, before)
	}
}
