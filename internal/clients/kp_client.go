package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// KpRecord — одна запись планетарного K-индекса из фида NOAA SWPC
type KpRecord struct {
	TimeTag     string  `json:"time_tag"`
	KpIndex     float64 `json:"kp_index"`
	EstimatedKp float64 `json:"estimated_kp"`
	Kp          string  `json:"kp"`
}

type KpClient interface {
	FetchReadings(ctx context.Context) ([]KpRecord, error)
}

type kpClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewKpClient(baseURL string) KpClient {
	return &kpClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *kpClient) FetchReadings(ctx context.Context) ([]KpRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)
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
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("NOAA API returned status %d: %s", resp.StatusCode, string(body))
	}

	var records []KpRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return records, nil
}
