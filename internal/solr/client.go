package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrCoreNotFound is returned when the admin endpoint reports no status for
// the configured core.
var ErrCoreNotFound = errors.New("core not found")

// Core is a client for one core of a standalone Solr instance. It is safe
// for concurrent use.
type Core struct {
	name      string
	adminURL  string
	pingURL   string
	postURL   string
	selectURL string
	client    *http.Client
}

// NewCore creates a client for the named core at solrHost
// (e.g. "http://localhost:8983").
func NewCore(name, solrHost string) (*Core, error) {
	base, err := url.Parse(solrHost)
	if err != nil {
		return nil, fmt.Errorf("invalid solr host %q: %w", solrHost, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid solr host %q: scheme must be http or https", solrHost)
	}
	if name == "" {
		return nil, fmt.Errorf("core name is required")
	}
	base.Path = ""

	root := strings.TrimRight(base.String(), "/")
	return &Core{
		name:      name,
		adminURL:  root + "/solr/admin/cores",
		pingURL:   root + "/solr/" + name + "/admin/ping",
		postURL:   root + "/solr/" + name + "/update",
		selectURL: root + "/solr/" + name + "/select",
		client:    &http.Client{},
	}, nil
}

// Name returns the core name.
func (c *Core) Name() string { return c.name }

// Ping checks that the core is responsive.
func (c *Core) Ping(ctx context.Context) (*PingResponse, error) {
	body, err := c.get(ctx, c.pingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ping core %s: %w", c.name, err)
	}

	var res PingResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode ping response: %w", err)
	}
	return &res, nil
}

// Status fetches the core's status from the admin endpoint.
func (c *Core) Status(ctx context.Context) (*CoreStatus, error) {
	body, err := c.get(ctx, c.adminURL, []Param{
		{Key: "action", Value: "STATUS"},
		{Key: "core", Value: c.name},
	})
	if err != nil {
		return nil, fmt.Errorf("status of core %s: %w", c.name, err)
	}

	var list CoreList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	status, ok := list.Status[c.name]
	if !ok || status.Name != c.name {
		return nil, fmt.Errorf("status of core %s: %w", c.name, ErrCoreNotFound)
	}
	return &status, nil
}

// Reload reloads the core.
func (c *Core) Reload(ctx context.Context) error {
	_, err := c.get(ctx, c.adminURL, []Param{
		{Key: "action", Value: "RELOAD"},
		{Key: "core", Value: c.name},
	})
	if err != nil {
		return fmt.Errorf("reload core %s: %w", c.name, err)
	}
	return nil
}

// SelectRaw issues a select with the given parameters and returns the raw
// response body. Parameter order and duplicate keys are preserved.
func (c *Core) SelectRaw(ctx context.Context, params []Param) ([]byte, error) {
	body, err := c.get(ctx, c.selectURL+"?"+encodeParams(params), nil)
	if err != nil {
		return nil, fmt.Errorf("select on core %s: %w", c.name, err)
	}
	return body, nil
}

// Select issues a select and decodes the response into document shape D and
// facet shape F.
func Select[D any, F any](ctx context.Context, c *Core, params []Param) (*SelectResponse[D, F], error) {
	body, err := c.SelectRaw(ctx, params)
	if err != nil {
		return nil, err
	}

	var res SelectResponse[D, F]
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode select response: %w", err)
	}
	return &res, nil
}

// Post sends a JSON payload (a document array or an update command) to the
// core's update endpoint. The index change is not visible until Commit.
func (c *Core) Post(ctx context.Context, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postURL, body)
	if err != nil {
		return fmt.Errorf("post to core %s: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to core %s: %w", c.name, err)
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return fmt.Errorf("post to core %s: %w", c.name, err)
	}
	return nil
}

// Commit makes all posted documents visible to searches.
func (c *Core) Commit(ctx context.Context) error {
	return c.Post(ctx, strings.NewReader(`{"commit": {}}`))
}

// Optimize merges the index segments.
func (c *Core) Optimize(ctx context.Context) error {
	return c.Post(ctx, strings.NewReader(`{"optimize": {}}`))
}

// Rollback discards all uncommitted documents.
func (c *Core) Rollback(ctx context.Context) error {
	return c.Post(ctx, strings.NewReader(`{"rollback": {}}`))
}

// Truncate deletes every document in the core. The deletion still requires
// a Commit to become visible.
func (c *Core) Truncate(ctx context.Context) error {
	return c.Post(ctx, strings.NewReader(`{"delete":{"query": "*:*"}}`))
}

func (c *Core) get(ctx context.Context, rawurl string, params []Param) ([]byte, error) {
	if len(params) > 0 {
		rawurl = rawurl + "?" + encodeParams(params)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return nil, err
	}
	return io.ReadAll(res.Body)
}

// checkStatus maps a non-2xx response to an error carrying the engine's own
// message when one is present in the body.
func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	var simple SimpleResponse
	if err := json.Unmarshal(body, &simple); err == nil && simple.Error != nil {
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, simple.Error.Msg)
	}
	return fmt.Errorf("unexpected status %d", res.StatusCode)
}

// encodeParams renders params as a query string, preserving order and
// repeated keys.
func encodeParams(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
