package geonames

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
)

// Place is one populated-place search result.
type Place struct {
	Name      string `json:"name"`
	Country   string `json:"countryName"`
	Region    string `json:"adminName1"`
	GeonameID string `json:"geoname_id"`
}

type searchResponse struct {
	Geonames []struct {
		Name        string `json:"name"`
		CountryName string `json:"countryName"`
		AdminName1  string `json:"adminName1"`
		GeonameID   int64  `json:"geonameId"`
	} `json:"geonames"`
}

// Client searches the GeoNames place database to resolve a city name into a
// geoname id. Searches require a GeoNames account username; without one the
// client returns no results.
type Client struct {
	cfg        config.GeonamesConfig
	httpClient *http.Client
}

func NewClient(cfg config.GeonamesConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Search returns up to maxResults populated places matching query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Place, error) {
	if c.cfg.Username == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("maxRows", strconv.Itoa(maxResults))
	q.Set("lang", "he")
	q.Set("isNameRequired", "true")
	q.Set("featureClass", "P") // populated places only
	q.Set("username", c.cfg.Username)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s", resp.Status)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result := make([]Place, 0, len(data.Geonames))
	for _, g := range data.Geonames {
		result = append(result, Place{
			Name:      g.Name,
			Country:   g.CountryName,
			Region:    g.AdminName1,
			GeonameID: strconv.FormatInt(g.GeonameID, 10),
		})
	}
	return result, nil
}
