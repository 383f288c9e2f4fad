package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// MoonRecord — лунные данные астрономического API (ipgeolocation.io)
// Проценты приходят строками, парсинг на стороне сервиса
type MoonRecord struct {
	MoonPhase        string  `json:"moon_phase"`
	MoonIllumination string  `json:"moon_illumination_percentage"`
	Moonrise         string  `json:"moonrise"`
	Moonset          string  `json:"moonset"`
	MoonDistance     float64 `json:"moon_distance"`
}

type MoonClient interface {
	GetMoonData(ctx context.Context, lat, lon float64) (*MoonRecord, error)
}

type moonClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewMoonClient(baseURL, apiKey string) MoonClient {
	return &moonClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *moonClient) GetMoonData(ctx context.Context, lat, lon float64) (*MoonRecord, error) {
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", lat))
	params.Add("long", fmt.Sprintf("%f", lon))
	if c.apiKey != "" {
		params.Add("apiKey", c.apiKey)
	}

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "Celestia/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("astronomy API returned status %d", resp.StatusCode)
	}

	var record MoonRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return &record, nil
}
