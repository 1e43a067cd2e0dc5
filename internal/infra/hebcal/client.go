package hebcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/domain"
)

// Client queries the Hebcal Shabbat API for the next candle-lighting and
// havdalah instants of a location.
type Client struct {
	cfg        config.HebcalConfig
	httpClient *http.Client
}

// shabbatResponse - payload shape of the Hebcal shabbat endpoint
type shabbatResponse struct {
	Title string        `json:"title"`
	Items []shabbatItem `json:"items"`
}

type shabbatItem struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func NewClient(cfg config.HebcalConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetCycle fetches the upcoming cycle for a geoname id. A positive havdalah
// offset requests a fixed minutes-after-sunset havdalah (`m`), zero requests
// Hebcal's automatic three-stars rule (`M=on`). Candle and havdalah items
// that are absent come back as zero instants; the caller validates the pair.
func (c *Client) GetCycle(ctx context.Context, locationID string, havdalahOffsetMinutes int) (domain.ResolvedCycle, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return domain.ResolvedCycle{}, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("cfg", "json")
	q.Set("geonameid", locationID)
	if c.cfg.CandleOffsetMinutes > 0 {
		q.Set("b", strconv.Itoa(c.cfg.CandleOffsetMinutes))
	}
	if havdalahOffsetMinutes > 0 {
		q.Set("m", strconv.Itoa(havdalahOffsetMinutes))
	} else {
		q.Set("M", "on")
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.ResolvedCycle{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	ua := c.cfg.UserAgent
	if ua == "" {
		ua = "shabbat-guard-bot/1.0 (+https://github.com/NastyaGoryachaya/shabbat-guard-bot)"
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ResolvedCycle{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ResolvedCycle{}, fmt.Errorf("request failed: %s", resp.Status)
	}

	var data shabbatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.ResolvedCycle{}, fmt.Errorf("decoding response: %w", err)
	}

	cycle := domain.ResolvedCycle{Title: data.Title}
	for _, item := range data.Items {
		switch item.Category {
		case "candles":
			at, err := time.Parse(time.RFC3339, item.Date)
			if err != nil {
				return domain.ResolvedCycle{}, fmt.Errorf("parsing candle-lighting date %q: %w", item.Date, err)
			}
			cycle.LockAt = at
		case "havdalah":
			at, err := time.Parse(time.RFC3339, item.Date)
			if err != nil {
				return domain.ResolvedCycle{}, fmt.Errorf("parsing havdalah date %q: %w", item.Date, err)
			}
			cycle.UnlockAt = at
		}
	}
	return cycle, nil
}
