package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"hmvfinder/internal"
	"hmvfinder/internal/config"
	"hmvfinder/internal/metrics"
)

// ErrUpstreamUnavailable is returned once every retry attempt against the
// catalog API has been exhausted. Callers distinguish it from an empty
// result via errors.Is.
var ErrUpstreamUnavailable = errors.New("hmv upstream unavailable")

type Client struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HMVTimeoutMs) * time.Millisecond},
	}
}

// SetTransport swaps the underlying transport. Tests inject a fake
// http.RoundTripper here.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient = &http.Client{
		Timeout:   time.Duration(c.cfg.HMVTimeoutMs) * time.Millisecond,
		Transport: rt,
	}
}

// FetchCatalog retrieves the full product list and normalizes every raw
// record. Removed and placeholder entries never leave this function.
func (c *Client) FetchCatalog(ctx context.Context) ([]internal.ProductRecord, error) {
	body, err := c.fetchJSON(ctx, "Produkt")
	if err != nil {
		return nil, err
	}

	raws, err := decodeProductList(body)
	if err != nil {
		return nil, err
	}

	out := make([]internal.ProductRecord, 0, len(raws))
	for _, raw := range raws {
		product, ok := toProductRecord(raw)
		if !ok {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}

// FetchProductDetail retrieves one product with its raw technical
// attribute list (konstruktionsmerkmale).
func (c *Client) FetchProductDetail(ctx context.Context, id string) ([]internal.AttributeEntry, error) {
	body, err := c.fetchJSON(ctx, "Produkt/"+id)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Merkmale []map[string]any `json:"konstruktionsmerkmale"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	out := make([]internal.AttributeEntry, 0, len(raw.Merkmale))
	for _, m := range raw.Merkmale {
		label := coalesceString(m, "label", "bezeichnung", "merkmal")
		value := coalesceString(m, "value", "wert")
		if label == "" {
			continue
		}
		out = append(out, internal.AttributeEntry{Label: label, Value: value})
	}
	return out, nil
}

type treeNode struct {
	ID       string     `json:"id"`
	XSteller string     `json:"xSteller"`
	Children []treeNode `json:"children"`
}

// FetchCategoryTree walks the nested category tree and flattens it into a
// map from category code to upstream identifier.
func (c *Client) FetchCategoryTree(ctx context.Context, depth int) (map[string]string, error) {
	body, err := c.fetchJSON(ctx, fmt.Sprintf("VerzeichnisTree/%d", depth))
	if err != nil {
		return nil, err
	}

	var roots []treeNode
	if err := json.Unmarshal(body, &roots); err != nil {
		var single treeNode
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, err
		}
		roots = []treeNode{single}
	}

	flat := map[string]string{}
	var walk func(node treeNode)
	walk = func(node treeNode) {
		code := strings.TrimSpace(node.XSteller)
		if code != "" {
			flat[code] = node.ID
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return flat, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	url := strings.TrimRight(c.cfg.HMVAPIBaseURL, "/") + "/" + endpoint

	attempts := c.cfg.HMVRetryMax
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(c.cfg.HMVBackoffMs*(1<<(attempt-2))+rand.Intn(100)) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.CatalogFetches.WithLabelValues("network_error").Inc()
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("hmv api status %d: %s", resp.StatusCode, truncate(string(body), 200))
			if isRetryableStatus(resp.StatusCode) {
				metrics.CatalogFetches.WithLabelValues("retryable_status").Inc()
				continue
			}
			metrics.CatalogFetches.WithLabelValues("fatal_status").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
		}

		metrics.CatalogFetches.WithLabelValues("ok").Inc()
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("hmv request failed")
	}
	return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// decodeProductList accepts both a bare JSON array and the OData-style
// {value: [...]} envelope the relay forwards unchanged.
func decodeProductList(body []byte) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected catalog payload: %w", err)
	}
	return envelope.Value, nil
}

// toProductRecord is the single place where the loosely shaped upstream
// record is coalesced into the canonical form.
func toProductRecord(raw map[string]any) (internal.ProductRecord, bool) {
	if toBool(raw["istHistorisch"]) || toBool(raw["geloescht"]) {
		return internal.ProductRecord{}, false
	}

	name := coalesceString(raw, "bezeichnung", "name", "produktname")
	if name == "" || name == "-" || name == "." {
		return internal.ProductRecord{}, false
	}

	id := coalesceString(raw, "id", "produktId", "guid")
	if id == "" {
		return internal.ProductRecord{}, false
	}

	code := coalesceString(raw, "zehnsteller", "produktartNummer", "nummer", "code")
	if code == "" {
		return internal.ProductRecord{}, false
	}

	product := internal.ProductRecord{
		ID:   id,
		Code: code,
		Name: name,
	}
	product.Manufacturer = toStringPtr(coalesceString(raw, "hersteller", "herstellerName"))
	product.Description = toStringPtr(coalesceString(raw, "beschreibung", "merkmale"))
	product.Price = toFloatPtr(firstPresent(raw, "preis", "price"))

	return product, true
}

func coalesceString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
	}
	return ""
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func toStringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toFloatPtr(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		// Prices occasionally arrive as "12,34" strings.
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		var f float64
		if _, err := fmt.Sscanf(s, "%f", &f); err == nil {
			return &f
		}
	}
	return nil
}
