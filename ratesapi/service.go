package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	goldex "go-gold-exchange"
)

const DefaultURL = "https://api.exchangerate-api.com/v4/latest/USD"

// Table a rates table and when it was fetched from the upstream API
type Table struct {
	Rates     goldex.Rates
	FetchedAt time.Time
}

// Service wraps the exchange rate REST API
type Service interface {
	// LatestRates loads the current rates against goldex.Pivot.
	LatestRates(ctx context.Context) (Table, error)
}

// service exchange rate API
type service struct {
	// url of the latest rates document
	url string

	// client for HTTP requests
	client http.Client

	now func() time.Time
}

// NewService constructs a valid rates Service. An empty url selects DefaultURL.
func NewService(url string, timeout time.Duration) Service {
	if url == "" {
		url = DefaultURL
	}
	return &service{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// LatestRates loads the latest rates table. Any failure, including a non-2xx
// status or a malformed document, wraps goldex.ErrFetchFailure.
func (s *service) LatestRates(ctx context.Context) (Table, error) {
	type Response struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"` // maps currency codes to rates
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Table{}, fmt.Errorf("%w: building http request: %v", goldex.ErrFetchFailure, err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return Table{}, fmt.Errorf("%w: http get: %v", goldex.ErrFetchFailure, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return Table{}, fmt.Errorf("%w: http status: %v", goldex.ErrFetchFailure, httpResponse.Status)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return Table{}, fmt.Errorf("%w: reading json: %v", goldex.ErrFetchFailure, err)
	}

	var response Response
	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return Table{}, fmt.Errorf("%w: decoding json: %v", goldex.ErrFetchFailure, err)
	}

	if response.Base != "" && goldex.Code(response.Base) != goldex.Pivot {
		return Table{}, fmt.Errorf("%w: unexpected base currency %q", goldex.ErrFetchFailure, response.Base)
	}
	if response.Rates == nil {
		return Table{}, fmt.Errorf("%w: missing rates", goldex.ErrFetchFailure)
	}

	rates := make(goldex.Rates, len(response.Rates))
	for k, v := range response.Rates {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return Table{}, fmt.Errorf("%w: bad rate value for %v: %v", goldex.ErrFetchFailure, k, v)
		}
		rates[goldex.Code(k)] = goldex.Rate(v)
	}

	return Table{Rates: rates, FetchedAt: s.now()}, nil
}
