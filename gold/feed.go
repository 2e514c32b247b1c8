package gold

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	goldex "go-gold-exchange"
)

// feed reads quotes from an HTTP price feed serving
// {"price": 65.5, "currency": "USD", "timestamp": 1760875200000}
// where timestamp is in unix milliseconds.
type feed struct {
	url    string
	client http.Client
}

// NewFeed constructs a Provider backed by an HTTP price feed.
func NewFeed(url string, timeout time.Duration) Provider {
	return &feed{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

func (f *feed) Quote(ctx context.Context) (goldex.GoldQuote, error) {
	type Response struct {
		Price     float64 `json:"price"`
		Currency  string  `json:"currency"`
		Timestamp int64   `json:"timestamp"`
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return goldex.GoldQuote{}, fmt.Errorf("%w: building http request: %v", goldex.ErrFetchFailure, err)
	}
	httpResponse, err := f.client.Do(request)
	if err != nil {
		return goldex.GoldQuote{}, fmt.Errorf("%w: http get: %v", goldex.ErrFetchFailure, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return goldex.GoldQuote{}, fmt.Errorf("%w: http status: %v", goldex.ErrFetchFailure, httpResponse.Status)
	}

	var response Response
	if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
		return goldex.GoldQuote{}, fmt.Errorf("%w: decoding json: %v", goldex.ErrFetchFailure, err)
	}

	if response.Price <= 0 || math.IsInf(response.Price, 0) || math.IsNaN(response.Price) {
		return goldex.GoldQuote{}, fmt.Errorf("%w: bad price %v", goldex.ErrFetchFailure, response.Price)
	}

	quote := goldex.GoldQuote{
		PricePerGram: goldex.Amount(response.Price),
		Currency:     goldex.Code(response.Currency),
		ObservedAt:   time.UnixMilli(response.Timestamp).UTC(),
	}
	if quote.Currency == "" {
		quote.Currency = goldex.Pivot
	}
	if response.Timestamp == 0 {
		quote.ObservedAt = time.Now().UTC()
	}
	return quote, nil
}
