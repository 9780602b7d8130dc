package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/metrics"
)

// Intent selects the store operation: Create is the first write for a user
// id, Update replaces the existing record. The store is keyed by user id, so
// issuing Create when a record already exists is a caller error the
// coordinator avoids by construction.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentUpdate Intent = "update"
)

func (i Intent) method() string {
	if i == IntentCreate {
		return http.MethodPost
	}
	return http.MethodPut
}

// SyncError is the single failure type of a synchronization attempt. The
// store's response body becomes the message when present; transport
// failures and non-2xx responses are not distinguished further.
type SyncError struct {
	Message string
	cause   error
}

func (e *SyncError) Error() string {
	return e.Message
}

func (e *SyncError) Unwrap() error {
	return e.cause
}

// Synchronizer executes a token-store write. Implementations do not retry:
// a failed attempt is terminal and the next triggering event is the only
// retry path.
type Synchronizer interface {
	Sync(ctx context.Context, intent Intent, token, userID string) error
}

// StoreClient talks to the external token store over its authenticated
// HTTP interface.
type StoreClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    metrics.Collector
}

func NewStoreClient(baseURL, apiKey string, m metrics.Collector) *StoreClient {
	if m == nil {
		m = metrics.Noop{}
	}
	return &StoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		metrics:    m,
	}
}

type syncRequest struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (c *StoreClient) Sync(ctx context.Context, intent Intent, token, userID string) error {
	err := c.sync(ctx, intent, token, userID)
	c.metrics.RecordTokenSync(string(intent), err == nil)
	return err
}

func (c *StoreClient) sync(ctx context.Context, intent Intent, token, userID string) error {
	body, err := json.Marshal(syncRequest{Token: token, UserID: userID})
	if err != nil {
		return &SyncError{Message: "failed to encode token payload", cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, intent.method(), c.baseURL, bytes.NewReader(body))
	if err != nil {
		return &SyncError{Message: "failed to build token store request", cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SyncError{Message: "failed to reach token store", cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "failed to sync token"
		if b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); len(b) > 0 {
			msg = string(b)
		}
		return &SyncError{
			Message: msg,
			cause:   fmt.Errorf("token store responded %d", resp.StatusCode),
		}
	}

	return nil
}
