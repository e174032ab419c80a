package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/common"
)

const defaultTimeout = 15 * time.Second

// HTTPGateway is the REST/JSON implementation of Gateway.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token used for subsequent requests.
func (g *HTTPGateway) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func (g *HTTPGateway) CreateRecord(ctx context.Context, table string, fields map[string]any) (Record, error) {
	var rec Record
	err := g.do(ctx, http.MethodPost, "/api/v1/"+table, nil, fields, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *HTTPGateway) UpdateRecord(ctx context.Context, table string, id string, fields map[string]any) (Record, error) {
	var rec Record
	err := g.do(ctx, http.MethodPut, "/api/v1/"+table+"/"+url.PathEscape(id), nil, fields, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *HTTPGateway) DeleteRecord(ctx context.Context, table string, id string) error {
	return g.do(ctx, http.MethodDelete, "/api/v1/"+table+"/"+url.PathEscape(id), nil, nil, nil)
}

func (g *HTTPGateway) ListUserRecords(ctx context.Context, table string, ownerID string) ([]Record, error) {
	query := url.Values{"owner_id": {ownerID}}
	var records []Record
	err := g.do(ctx, http.MethodGet, "/api/v1/"+table, query, nil, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *HTTPGateway) Ping(ctx context.Context) error {
	return g.do(ctx, http.MethodGet, "/api/v1/ping", nil, nil, nil)
}

// do performs one request. Transport failures map to
// common.ErrGatewayUnreachable, non-2xx responses to
// common.ErrGatewayRejected with the body preserved verbatim. Gateway
// 502/503/504 count as unreachable since the backend never saw the call.
func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", g.apiKey)
	g.mu.RLock()
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	g.mu.RUnlock()

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrGatewayUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %s %s: status %d", common.ErrGatewayUnreachable, method, path, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", common.ErrGatewayRejected, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
