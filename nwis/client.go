package nwis

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Client retrieves and parses NWIS data. The zero value uses the default
// service endpoints and http.DefaultClient.
type Client struct {
	// HTTP is the client used for the single GET per retrieval.
	HTTP *http.Client

	// TimeSeriesBase and WaterQualityBase override the service endpoints
	// (used by tests).
	TimeSeriesBase   string
	WaterQualityBase string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) base(m Mode) string {
	if m == WaterQuality {
		if c.WaterQualityBase != "" {
			return c.WaterQualityBase
		}
		return defaultWaterQualityBase
	}
	if c.TimeSeriesBase != "" {
		return c.TimeSeriesBase
	}
	return defaultTimeSeriesBase
}

// Fetch issues one GET against the given URL and returns the body.
// No retries; a transport failure or non-2xx status wraps ErrNetwork.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: GET %s: unexpected status %s", ErrNetwork, rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: read body: %v", ErrNetwork, rawURL, err)
	}
	return string(body), nil
}

// Download runs one full retrieval: validate the query, fetch the RDB
// payload, split off the comment header and parse the data block.
func (c *Client) Download(ctx context.Context, q Query) (Header, *Table, error) {
	u, err := q.buildURL(c.base(q.Mode))
	if err != nil {
		return nil, nil, err
	}

	raw, err := c.Fetch(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	head, block, err := SplitHeader(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", u, err)
	}

	table, err := ParseTable(block, '\t')
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", u, err)
	}
	return head, table, nil
}
