package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"massimos/storefront/internal/config"
	"massimos/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// MenuClient fetches the remote menu and normalizes it into canonical items.
type MenuClient interface {
	FetchMenu(ctx context.Context) ([]domain.MenuItem, error)
}

type menuClient struct {
	rl         ratelimit.Limiter
	config     config.MenuConfig
	httpClient *resty.Client
	parser     *menuParser
}

func NewMenuClient(cfg config.MenuConfig) MenuClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "massimos-storefront/1.0")

	return &menuClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		httpClient: client,
		parser:     newMenuParser(),
	}
}

func (c *menuClient) FetchMenu(ctx context.Context) ([]domain.MenuItem, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.config.Endpoint)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	records, err := decodePayload([]byte(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode menu payload: %w", err)
	}

	items := c.parser.Normalize(records)
	log.Debugf("Fetched menu with %d items from %s", len(items), c.config.Endpoint)
	return items, nil
}

// decodePayload tolerates both shapes the spreadsheet endpoint is known to
// emit: a bare JSON array of records or an object wrapping an "items" array.
func decodePayload(body []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("payload is neither an item array nor an items object: %w", err)
	}
	return wrapped.Items, nil
}
