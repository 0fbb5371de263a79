package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// modelInfo is the inference host's description of a loaded model.
// Fetching it forces the host to pull weights on first use, so a failed
// download surfaces here rather than on the first encode.
type modelInfo struct {
	RepoID  string `json:"repo_id"`
	Backend string `json:"backend"`
	Dim     int    `json:"dim"`
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

func fetchModelInfo(ctx context.Context, httpc *http.Client, modelURL string) (modelInfo, error) {
	var info modelInfo
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL+"/info", nil)
	if err != nil {
		return info, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return info, fmt.Errorf("embedding host info http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, err
	}
	if info.Dim <= 0 {
		return info, fmt.Errorf("embedding host reported dim %d", info.Dim)
	}
	return info, nil
}

func postJSON(ctx context.Context, httpc *http.Client, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("embedding host http %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return json.Unmarshal(raw, out)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
