package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
)

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: received status code %d", e.Method, e.Path, e.Code)
}

// Client talks to the remote POS API: checkpads, ordersheets, areas and the legacy comandas resource.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a client for the configured base URL.
func New(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.HTTPProxy != "" {
		client.SetProxy(cfg.HTTPProxy)
	}

	return &Client{http: client, logger: logger}
}

// ListCheckpads fetches every raw table record.
func (c *Client) ListCheckpads(ctx context.Context) ([]Checkpad, error) {
	resp, err := c.get(ctx, "/checkpads")
	if err != nil {
		return nil, err
	}
	return listOf[Checkpad](c, "/checkpads", resp)
}

// ListOrdersheets fetches every raw tab record and the X-Total-Count header, when present.
func (c *Client) ListOrdersheets(ctx context.Context) ([]Ordersheet, int, error) {
	resp, err := c.get(ctx, "/ordersheets")
	if err != nil {
		return nil, 0, err
	}
	sheets, err := listOf[Ordersheet](c, "/ordersheets", resp)
	if err != nil {
		return nil, 0, err
	}
	return sheets, totalCount(resp), nil
}

// ListAreas fetches the area definitions.
func (c *Client) ListAreas(ctx context.Context) ([]Area, error) {
	resp, err := c.get(ctx, "/areas")
	if err != nil {
		return nil, err
	}
	return listOf[Area](c, "/areas", resp)
}

// CreateOrdersheet posts a new tab and returns the record the server created.
func (c *Client) CreateOrdersheet(ctx context.Context, body NewOrdersheet) (*Ordersheet, error) {
	var out Ordersheet
	if err := c.send(ctx, http.MethodPost, "/ordersheets", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchOrdersheet applies a partial update to the tab addressed by key.
func (c *Client) PatchOrdersheet(ctx context.Context, key string, patch OrdersheetPatch) (*Ordersheet, error) {
	var out Ordersheet
	if err := c.send(ctx, http.MethodPatch, "/ordersheets/{id}", key, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchCheckpad applies a partial update to the table addressed by id.
func (c *Client) PatchCheckpad(ctx context.Context, id string, patch CheckpadPatch) (*Checkpad, error) {
	var out Checkpad
	if err := c.send(ctx, http.MethodPatch, "/checkpads/{id}", id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComandas fetches the legacy tab records.
func (c *Client) ListComandas(ctx context.Context) ([]Comanda, int, error) {
	resp, err := c.get(ctx, "/comandas")
	if err != nil {
		return nil, 0, err
	}
	comandas, err := listOf[Comanda](c, "/comandas", resp)
	if err != nil {
		return nil, 0, err
	}
	return comandas, totalCount(resp), nil
}

// CreateComanda posts a legacy tab record.
func (c *Client) CreateComanda(ctx context.Context, body Comanda) (*Comanda, error) {
	var out Comanda
	if err := c.send(ctx, http.MethodPost, "/comandas", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchComanda applies a partial update to a legacy tab record.
func (c *Client) PatchComanda(ctx context.Context, id string, patch ComandaPatch) (*Comanda, error) {
	var out Comanda
	if err := c.send(ctx, http.MethodPatch, "/comandas/{id}", id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string) (*resty.Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s failed: %w", path, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode()}
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path, id string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetBody(body)
	if id != "" {
		req.SetPathParam("id", id)
	}

	c.logger.Debug("sending upstream write",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("id", id),
	)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	if resp.IsError() {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}

func totalCount(resp *resty.Response) int {
	n, err := strconv.Atoi(resp.Header().Get("X-Total-Count"))
	if err != nil {
		return 0
	}
	return n
}

// decodeCollection accepts either a JSON array or an object keyed by id. Object values are
// returned in key order so repeated fetches see a stable ordering. Records that do not decode are
// skipped and counted; only a body that is neither shape fails.
func decodeCollection[T any](body []byte) ([]T, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(body, &keyed); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal collection: %w", err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		raw = make([]json.RawMessage, 0, len(keyed))
		for _, k := range keys {
			raw = append(raw, keyed[k])
		}
	}

	list := make([]T, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			skipped++
			continue
		}
		list = append(list, item)
	}
	return list, skipped, nil
}

// listOf decodes a collection response, logging the records it had to skip.
func listOf[T any](c *Client, path string, resp *resty.Response) ([]T, error) {
	list, skipped, err := decodeCollection[T](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed records", zap.String("resource", path), zap.Int("skipped", skipped))
	}
	return list, nil
}
