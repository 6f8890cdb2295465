package stager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Notifier tells the query service about freshly staged data. Both calls
// are fire-and-forget: failures are logged, never retried here (the
// scheduling layer already carries a single retry).
type Notifier struct {
	baseURL string
	client  *http.Client
}

// NewNotifier creates a notifier for the query service at baseURL.
func NewNotifier(baseURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// AnnounceNewData posts the upload summary to the analysis sink.
func (n *Notifier) AnnounceNewData(ctx context.Context, uploaded int) {
	payload := map[string]any{
		"file_count": uploaded,
		"message":    fmt.Sprintf("%d개 파일이 업로드됨", uploaded),
	}
	n.post(ctx, "/analyze/new-data", payload)
}

// RequestReload asks the query service to rebuild its cache eagerly.
func (n *Notifier) RequestReload(ctx context.Context, executionDate string, uploaded int) {
	payload := map[string]any{
		"trigger":        "daily_stager",
		"uploaded_files": uploaded,
		"execution_date": executionDate,
	}
	n.post(ctx, "/reload", payload)
}

func (n *Notifier) post(ctx context.Context, path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("stager: notify %s: cannot encode payload: %v", path, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		log.Printf("stager: notify %s: %v", path, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("stager: notify %s failed: %v", path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("stager: notify %s returned %s", path, resp.Status)
		return
	}
	log.Printf("stager: notify %s ok", path)
}
