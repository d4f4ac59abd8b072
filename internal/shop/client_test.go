package shop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api/BuyGmail/GetListGmailProduct", apiKey, 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestFetchProducts(t *testing.T) {
	t.Run("Decodes product list", func(t *testing.T) {
		client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
			assert.Equal(t, "/api/BuyGmail/GetListGmailProduct", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"listproduct":[
				{"id":4,"name":"Gmail New","quantity":12,"price":15000},
				{"id":148,"quantity":0,"price":"2500.5"}
			]}`))
		})

		products, err := client.FetchProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 2)

		assert.Equal(t, 4, products[0].ID)
		assert.Equal(t, "Gmail New", products[0].Name)
		assert.Equal(t, 12, products[0].Quantity)
		assert.Equal(t, "15000", products[0].Price.String())

		assert.Equal(t, "Unknown", products[1].Name)
		assert.Equal(t, "2500.5", products[1].Price.String())
	})

	t.Run("No api key leaves query untouched", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			w.Write([]byte(`{"success":true,"listproduct":[]}`))
		})

		products, err := client.FetchProducts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Success false", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"listproduct":[{"id":4,"quantity":3}]}`))
		})

		_, err := client.FetchProducts(context.Background())
		assert.ErrorIs(t, err, ErrUnsuccessful)
	})

	t.Run("Non-OK status", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.FetchProducts(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := client.FetchProducts(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing JSON response")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"listproduct":[]}`))
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.FetchProducts(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewClientDefaultsURL(t *testing.T) {
	client, err := NewClient("", "", time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, client.apiURL)
}
