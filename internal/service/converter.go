package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var RateUnavailableErr = errors.New("exchange rate is unavailable")

// Converter turns an amount in the local currency into the target currency
type Converter interface {
	Convert(ctx context.Context, amount float64) (float64, error)
}

type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// ExchangeRates looks the rate up on every call, nothing is cached.
// A transport failure is a hard error. A successful response that has no
// rate for the target currency falls back to 1:1 unless strict is set.
type ExchangeRates struct {
	client   *http.Client
	url      string
	target   string
	strict   bool
	attempts int
}

func NewExchangeRates(url, target string, strict bool, timeout time.Duration, attempts int) *ExchangeRates {
	if attempts < 1 {
		attempts = 1
	}
	return &ExchangeRates{
		client: &http.Client{
			Timeout: timeout,
		},
		url:      url,
		target:   target,
		strict:   strict,
		attempts: attempts,
	}
}

func (e *ExchangeRates) Convert(ctx context.Context, amount float64) (float64, error) {
	rates, err := e.fetchRates(ctx)
	if err != nil {
		return 0, err
	}

	rate, ok := rates[e.target]
	if !ok {
		if e.strict {
			return 0, fmt.Errorf("%w: no rate for %s", RateUnavailableErr, e.target)
		}
		logrus.Warnf("converter: no rate for %s, falling back to 1:1", e.target)
		rate = 1
	}
	return amount * rate, nil
}

func (e *ExchangeRates) fetchRates(ctx context.Context) (map[string]float64, error) {
	var lastErr error
	for attempt := 1; attempt <= e.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", RateUnavailableErr, ctx.Err())
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}

		rates, err := e.fetchOnce(ctx)
		if err == nil {
			return rates, nil
		}
		lastErr = err
		logrus.Errorf("converter: rate lookup attempt %d/%d failed: %v", attempt, e.attempts, err)
	}
	return nil, fmt.Errorf("%w: %v", RateUnavailableErr, lastErr)
}

func (e *ExchangeRates) fetchOnce(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return nil, fmt.Errorf("converter couldn't build request: %v", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("converter couldn't reach rate service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("converter: rate service answered %s", resp.Status)
	}

	var body rateResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("converter couldn't decode rate response: %v", err)
	}
	return body.Rates, nil
}
