package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NeoFeed — ответ NASA NeoWs, сгруппированный по датам. Числовые поля
// сближений приходят строками, как их отдает API.
type NeoFeed struct {
	ElementCount     int                    `json:"element_count"`
	NearEarthObjects map[string][]NeoObject `json:"near_earth_objects"`
}

type NeoObject struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	IsPotentiallyHazardous bool   `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter      struct {
		Meters struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"meters"`
	} `json:"estimated_diameter"`
	CloseApproachData []CloseApproach `json:"close_approach_data"`
}

type CloseApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KmPerHour string `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers   string `json:"kilometers"`
		Astronomical string `json:"astronomical"`
	} `json:"miss_distance"`
}

type NeoClient interface {
	FetchFeed(ctx context.Context, days int) (*NeoFeed, error)
}

type neoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewNeoClient(baseURL, apiKey string) NeoClient {
	return &neoClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

func (c *neoClient) FetchFeed(ctx context.Context, days int) (*NeoFeed, error) {
	if days < 1 || days > 7 {
		days = 7
	}

	// Окно сближений: сегодня и days дней вперед
	startDate := time.Now().UTC().Format("2006-01-02")
	endDate := time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")

	params := url.Values{}
	params.Add("start_date", startDate)
	params.Add("end_date", endDate)
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
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
		return nil, fmt.Errorf("NEO API returned status %d", resp.StatusCode)
	}

	var feed NeoFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return &feed, nil
}
