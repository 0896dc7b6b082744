package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExchangeRates_Convert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"USD": 0.025, "EUR": 0.023}}`))
	}))
	defer srv.Close()

	converter := NewExchangeRates(srv.URL, "USD", false, time.Second, 1)
	got, err := converter.Convert(context.Background(), 200)
	require.NoError(t, err)
	require.InDelta(t, 5.0, got, 1e-9)
}

func TestExchangeRates_MissingRate_FallsBackToOneToOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"EUR": 0.023}}`))
	}))
	defer srv.Close()

	converter := NewExchangeRates(srv.URL, "USD", false, time.Second, 1)
	got, err := converter.Convert(context.Background(), 150.5)
	require.NoError(t, err)
	require.Equal(t, 150.5, got)
}

func TestExchangeRates_MissingRate_StrictFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"EUR": 0.023}}`))
	}))
	defer srv.Close()

	converter := NewExchangeRates(srv.URL, "USD", true, time.Second, 1)
	_, err := converter.Convert(context.Background(), 150.5)
	require.ErrorIs(t, err, RateUnavailableErr)
}

func TestExchangeRates_TransportFailureIsHard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	converter := NewExchangeRates(srv.URL, "USD", false, time.Second, 2)
	_, err := converter.Convert(context.Background(), 150.5)
	require.ErrorIs(t, err, RateUnavailableErr)
}

func TestExchangeRates_RetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"rates": {"USD": 2}}`))
	}))
	defer srv.Close()

	converter := NewExchangeRates(srv.URL, "USD", false, time.Second, 3)
	got, err := converter.Convert(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 20.0, got)
	require.Equal(t, 3, calls)
}
