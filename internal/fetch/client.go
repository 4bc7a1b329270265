// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch talks to the remote document service: credential exchange,
// document metadata, and paginated block retrieval. Every call goes through
// the shared 429 retry helper; callers see either a decoded payload or an
// error, never a raw HTTP response.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/docexport/internal/httputil"
	"github.com/pdiddy/docexport/pkg/blocks"
	"github.com/pdiddy/docexport/pkg/types"
)

// apiBase is the document service endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://open.docs.example.com/api/v1"

const defaultPageSize = 500

// CallReporter receives one callback per API round-trip. It replaces a
// global call counter: callers that want usage accounting inject one, the
// rest pass nil.
type CallReporter interface {
	APICall(endpoint string)
}

// Credentials identify the calling application to the document service.
type Credentials struct {
	AppID     string
	AppSecret string
}

// DocumentMeta is the document-level metadata returned by the service.
type DocumentMeta struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	RevisionID int64  `json:"revision_id"`
}

// Client is a document service API client. It is safe for sequential reuse
// across documents; Authenticate must succeed before other calls.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
	creds      Credentials
	reporter   CallReporter

	accessToken string
}

// NewClient builds a client from config and credentials. reporter may be nil.
func NewClient(httpClient *http.Client, cfg types.FetchConfig, creds Credentials, reporter CallReporter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		creds:      creds,
		reporter:   reporter,
	}
}

// envelope is the common response wrapper of the document service. A
// non-zero code is an application-level failure even on HTTP 200.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Authenticate exchanges app credentials for a tenant access token.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"app_id":     c.creds.AppID,
		"app_secret": c.creds.AppSecret,
	})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/auth/tenant_access_token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var auth struct {
		TenantAccessToken string `json:"tenant_access_token"`
	}
	if err := c.do(req, "/auth/tenant_access_token", &auth); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	if auth.TenantAccessToken == "" {
		return fmt.Errorf("authenticating: empty access token in response")
	}
	c.accessToken = auth.TenantAccessToken
	return nil
}

// Document fetches document-level metadata.
func (c *Client) Document(ctx context.Context, documentID string) (DocumentMeta, error) {
	endpoint := "/docx/documents/" + url.PathEscape(documentID)
	req, err := c.newGet(ctx, endpoint, nil)
	if err != nil {
		return DocumentMeta{}, err
	}

	var data struct {
		Document DocumentMeta `json:"document"`
	}
	if err := c.do(req, endpoint, &data); err != nil {
		return DocumentMeta{}, fmt.Errorf("fetching document %s: %w", documentID, err)
	}
	return data.Document, nil
}

// Blocks retrieves the complete flat block list of a document, following
// page tokens until the service reports no more pages. Blocks arrive in
// document order and order is preserved across pages.
func (c *Client) Blocks(ctx context.Context, documentID string) ([]*blocks.Block, error) {
	endpoint := "/docx/documents/" + url.PathEscape(documentID) + "/blocks"
	pageSize := c.cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var all []*blocks.Block
	pageToken := ""
	for {
		query := url.Values{"page_size": {strconv.Itoa(pageSize)}}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}
		req, err := c.newGet(ctx, endpoint, query)
		if err != nil {
			return nil, err
		}

		var data struct {
			Items     []*blocks.Block `json:"items"`
			PageToken string          `json:"page_token"`
			HasMore   bool            `json:"has_more"`
		}
		if err := c.do(req, endpoint, &data); err != nil {
			return nil, fmt.Errorf("listing blocks of %s: %w", documentID, err)
		}

		all = append(all, data.Items...)
		if !data.HasMore || data.PageToken == "" {
			return all, nil
		}
		pageToken = data.PageToken
	}
}

// Download streams the binary behind a media token to w.
func (c *Client) Download(ctx context.Context, token string, w io.Writer) error {
	endpoint := "/drive/medias/" + url.PathEscape(token) + "/download"
	req, err := c.newGet(ctx, endpoint, nil)
	if err != nil {
		return err
	}

	if c.reporter != nil {
		c.reporter.APICall(endpoint)
	}
	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("downloading media %s: %w", token, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading media %s: HTTP %d", token, resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("downloading media %s: %w", token, err)
	}
	return nil
}

func (c *Client) newGet(ctx context.Context, endpoint string, query url.Values) (*http.Request, error) {
	u := apiBase + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}
	return req, nil
}

// do executes a request with auth and retry, checks the envelope, and
// decodes the data payload into out.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	if c.reporter != nil {
		c.reporter.APICall(endpoint)
	}
	resp, err := httputil.DoWithRetry(req.Context(), c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	if env.Code != 0 {
		return fmt.Errorf("API error %d from %s: %s", env.Code, endpoint, env.Msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding payload from %s: %w", endpoint, err)
	}
	return nil
}
