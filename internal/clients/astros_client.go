package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AstrosRecord — текущий состав экипажей на орбите (open-notify)
type AstrosRecord struct {
	Number int `json:"number"`
	People []struct {
		Name  string `json:"name"`
		Craft string `json:"craft"`
	} `json:"people"`
	Message string `json:"message"`
}

type AstrosClient interface {
	GetPeopleInSpace(ctx context.Context) (*AstrosRecord, error)
}

type astrosClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAstrosClient(baseURL string) AstrosClient {
	return &astrosClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *astrosClient) GetPeopleInSpace(ctx context.Context) (*AstrosRecord, error) {
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
		return nil, fmt.Errorf("astros API returned status %d", resp.StatusCode)
	}

	var record AstrosRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return &record, nil
}
