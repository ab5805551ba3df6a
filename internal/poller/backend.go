package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jpalmerr/pulsewatch/internal/store"
)

var (
	// ErrBackendUnsuccessful is returned when the status envelope has success=false.
	ErrBackendUnsuccessful = errors.New("backend reported success=false")

	// ErrMissingData is returned when a successful envelope carries no data object.
	ErrMissingData = errors.New("status response has no data")
)

// Backend is the remote collaborator the poller talks to.
type Backend interface {
	// FetchStatus retrieves the current status snapshot.
	FetchStatus(ctx context.Context) (store.Snapshot, error)

	// TriggerResearch asks the backend to start a new research cycle.
	// The response body is ignored.
	TriggerResearch(ctx context.Context) error
}

// statusEnvelope is the wire shape of GET /status.
type statusEnvelope struct {
	Success bool             `json:"success"`
	Data    *snapshotPayload `json:"data"`
}

type snapshotPayload struct {
	Status        string `json:"status"`
	CurrentAction string `json:"current_action"`
	LastUpdated   string `json:"last_updated"`
}

// HTTPBackend implements [Backend] over HTTP using a [Client].
type HTTPBackend struct {
	client      *Client
	statusPath  string
	triggerPath string
}

// NewHTTPBackend creates an [HTTPBackend]. Empty paths fall back to
// "/status" and "/trigger-research".
func NewHTTPBackend(client *Client, statusPath, triggerPath string) *HTTPBackend {
	if statusPath == "" {
		statusPath = DefaultStatusPath
	}
	if triggerPath == "" {
		triggerPath = DefaultTriggerPath
	}
	return &HTTPBackend{
		client:      client,
		statusPath:  statusPath,
		triggerPath: triggerPath,
	}
}

// FetchStatus performs GET on the status path and decodes the envelope.
func (b *HTTPBackend) FetchStatus(ctx context.Context) (store.Snapshot, error) {
	resp := b.client.Do(ctx, http.MethodGet, b.statusPath)
	if resp.Error != nil {
		return store.Snapshot{}, resp.Error
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return store.Snapshot{}, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return decodeStatus(resp.Body)
}

// TriggerResearch performs POST on the trigger path.
func (b *HTTPBackend) TriggerResearch(ctx context.Context) error {
	resp := b.client.Do(ctx, http.MethodPost, b.triggerPath)
	if resp.Error != nil {
		return resp.Error
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return nil
}

// Close releases idle connections held by the underlying client.
func (b *HTTPBackend) Close() {
	b.client.Close()
}

// decodeStatus parses a status envelope into a fully populated snapshot.
func decodeStatus(body []byte) (store.Snapshot, error) {
	var env statusEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return store.Snapshot{}, fmt.Errorf("malformed status response: %w", err)
	}
	if !env.Success {
		return store.Snapshot{}, ErrBackendUnsuccessful
	}
	if env.Data == nil {
		return store.Snapshot{}, ErrMissingData
	}

	return store.Snapshot{
		Status:        NormalizeStatus(env.Data.Status),
		CurrentAction: env.Data.CurrentAction,
		LastUpdated:   parseTimestamp(env.Data.LastUpdated),
	}, nil
}

// parseTimestamp reads an RFC 3339 timestamp. Empty or unparseable values
// yield the zero time rather than failing the whole snapshot.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NormalizeStatus maps unrecognised status strings to "unknown".
func NormalizeStatus(s string) string {
	switch s {
	case store.StatusActive, store.StatusIdle, store.StatusError:
		return s
	default:
		return store.StatusUnknown
	}
}
