package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	kvPath     = "/api/v1/kv/"
	healthPath = "/api/v1/health"
)

type entry struct {
	Key   string `json:"key,omitempty"`
	Value []byte `json:"value"`
}

// HTTPStore talks to adledger-server over its kv API.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore builds an adapter for the server at address. A bare host:port
// gets an http:// or https:// scheme depending on useTLS.
func NewHTTPStore(address string, useTLS bool, timeout time.Duration) *HTTPStore {
	base := address
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		if useTLS {
			base = "https://" + base
		} else {
			base = "http://" + base
		}
	}

	return &HTTPStore{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) Get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, storeErr("get", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, storeErr("get", key, statusError(resp))
	}

	var e entry
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return nil, storeErr("get", key, fmt.Errorf("decode response: %w", err))
	}
	return e.Value, nil
}

func (s *HTTPStore) Set(ctx context.Context, key string, value []byte) error {
	body, err := json.Marshal(entry{Value: value})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return storeErr("set", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return storeErr("set", key, statusError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Ping checks the server health endpoint.
func (s *HTTPStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return storeErr("ping", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return storeErr("ping", s.baseURL, statusError(resp))
	}
	return nil
}

func (s *HTTPStore) keyURL(key string) string {
	return s.baseURL + kvPath + url.PathEscape(key)
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
