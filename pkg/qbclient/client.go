// qbclient/client.go
package qbclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// QBO caps MAXRESULTS at 1000; STARTPOSITION is 1-based.
const defaultPageSize = 1000

var (
	// ErrAuthFailed is a 401 from the QBO API
	ErrAuthFailed = errors.New("quickbooks auth failed")
	// ErrQueryFailed is any other non-2xx from the QBO API
	ErrQueryFailed = errors.New("quickbooks query failed")
)

// TokenProvider supplies a usable bearer token for a realm
type TokenProvider interface {
	ValidAccessToken(ctx context.Context, realmID string, skew time.Duration) (string, error)
}

// Client is the QuickBooks API client
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	pageSize   int
}

// NewClient creates a new QuickBooks API client
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		pageSize:   defaultPageSize,
	}
}

// QueryAll runs a QBO SQL-like query and fetches every page. entity names
// the QueryResponse array to collect, e.g. "Invoice".
func (c *Client) QueryAll(ctx context.Context, realmID, entity, query string) ([]map[string]interface{}, error) {
	var results []map[string]interface{}
	start := 1

	for {
		paged := fmt.Sprintf("%s STARTPOSITION %d MAXRESULTS %d", query, start, c.pageSize)

		body, err := c.do(ctx, realmID, "POST", fmt.Sprintf("/v3/company/%s/query", realmID), "text/plain", strings.NewReader(paged))
		if err != nil {
			return nil, err
		}

		var payload struct {
			QueryResponse map[string]json.RawMessage `json:"QueryResponse"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("%w: malformed query response: %v", ErrQueryFailed, err)
		}

		var batch []map[string]interface{}
		if raw, ok := payload.QueryResponse[entity]; ok && len(raw) > 0 {
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("%w: malformed %s batch: %v", ErrQueryFailed, entity, err)
			}
		}
		results = append(results, batch...)

		if len(batch) < c.pageSize {
			break
		}
		start += c.pageSize
	}

	return results, nil
}

// CompanyInfo fetches the realm's company record
func (c *Client) CompanyInfo(ctx context.Context, realmID string) (map[string]interface{}, error) {
	body, err := c.do(ctx, realmID, "GET", fmt.Sprintf("/v3/company/%s/companyinfo/%s", realmID, realmID), "", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		CompanyInfo map[string]interface{} `json:"CompanyInfo"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed company info response: %v", ErrQueryFailed, err)
	}

	return payload.CompanyInfo, nil
}

// do makes an authenticated request to the QuickBooks API and returns the
// response body. 401 is surfaced as ErrAuthFailed, any other non-2xx as
// ErrQueryFailed.
func (c *Client) do(ctx context.Context, realmID, method, path, contentType string, body io.Reader) ([]byte, error) {
	token, err := c.tokens.ValidAccessToken(ctx, realmID, 0)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	query := req.URL.Query()
	query.Set("minorversion", "75")
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrQueryFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, respBody)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrQueryFailed, resp.StatusCode, respBody)
	}

	return respBody, nil
}
