package vworld

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
)

// Client - поиск места VWorld (Search API 2.0). Берется первая найденная
// точка. Транспорт - обычный HTTP с JSON: JSONP-мост оригинального
// браузерного клиента здесь не нужен.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type searchResponse struct {
	Response struct {
		Status string `json:"status"`
		Result struct {
			Items []struct {
				Point struct {
					X string `json:"x"` // долгота
					Y string `json:"y"` // широта
				} `json:"point"`
			} `json:"items"`
		} `json:"result"`
	} `json:"response"`
}

var _ port.PlaceSearchPort = (*Client)(nil)

// Lookup выполняет один поисковый запрос. found=false - сервис ничего не
// нашел или точка без координат; ошибка - сеть/кривой ответ (таймаут задает
// вызывающий через контекст).
func (c *Client) Lookup(ctx context.Context, query string) (domain.Coordinate, bool, error) {
	params := url.Values{}
	params.Set("service", "search")
	params.Set("request", "search")
	params.Set("version", "2.0")
	params.Set("crs", "epsg:4326")
	params.Set("query", query)
	params.Set("type", "place")
	params.Set("key", c.apiKey)
	params.Set("format", "json")
	params.Set("size", "1")

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Coordinate{}, false, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("failed to decode place search response: %w", err)
	}

	if parsed.Response.Status != "OK" || len(parsed.Response.Result.Items) == 0 {
		return domain.Coordinate{}, false, nil
	}

	point := parsed.Response.Result.Items[0].Point
	lng, errX := strconv.ParseFloat(point.X, 64)
	lat, errY := strconv.ParseFloat(point.Y, 64)
	if errX != nil || errY != nil {
		return domain.Coordinate{}, false, nil
	}

	return domain.Coordinate{Lat: lat, Lng: lng}, true, nil
}
