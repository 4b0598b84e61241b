package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Remote is a KV client for the HTTP storage API served by `rowcount serve`.
type Remote struct {
	base   string
	token  string
	client *http.Client
}

// NewRemote returns a client for the storage API rooted at baseURL. A
// non-empty token is sent as a bearer token.
func NewRemote(baseURL, token string) *Remote {
	return &Remote{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type remoteError struct {
	Error string `json:"error"`
}

func (r *Remote) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := r.base + "/api/storage/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("store: remote %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("store: remote %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e remoteError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("store: remote %s: %s", path, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: remote %s: decode: %w", path, err)
	}
	return nil
}

func (r *Remote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var out struct {
		Value *string `json:"value"`
	}
	if err := r.do(ctx, http.MethodGet, "get", url.Values{"key": {key}}, nil, &out); err != nil {
		return nil, false, err
	}
	if out.Value == nil {
		return nil, false, nil
	}
	return []byte(*out.Value), true, nil
}

func (r *Remote) Set(ctx context.Context, key string, value []byte) error {
	body := map[string]string{"key": key, "value": string(value)}
	return r.do(ctx, http.MethodPost, "set", nil, body, nil)
}

func (r *Remote) Delete(ctx context.Context, key string) error {
	return r.do(ctx, http.MethodPost, "delete", nil, map[string]string{"key": key}, nil)
}

func (r *Remote) List(ctx context.Context, prefix string) ([]string, error) {
	var out struct {
		Keys []string `json:"keys"`
	}
	if err := r.do(ctx, http.MethodGet, "list", url.Values{"prefix": {prefix}}, nil, &out); err != nil {
		return nil, err
	}
	if out.Keys == nil {
		out.Keys = []string{}
	}
	return out.Keys, nil
}

func (r *Remote) Close() error { return nil }
