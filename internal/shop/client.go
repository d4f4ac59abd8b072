package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/http2"
)

const (
	DefaultAPIURL  = "https://api.shopgmail9999.com/api/BuyGmail/GetListGmailProduct"
	DefaultShopURL = "https://shopgmail9999.com/"

	unknownProductName = "Unknown"
	userAgent          = "GmailStockNotifier/1.0"
)

// ErrUnsuccessful is returned when the API answers with success=false.
var ErrUnsuccessful = errors.New("shop api reported success=false")

// Struct to match the overall JSON response structure
type ProductListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"listproduct"`
}

type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewClient(apiURL, apiKey string, timeout time.Duration) (*Client, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid shop api url %q: %w", apiURL, err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to configure http2 transport: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		apiURL: apiURL,
		apiKey: apiKey,
	}, nil
}

func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", err
	}
	if c.apiKey != "" {
		query := u.Query()
		query.Set("apikey", c.apiKey)
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// FetchProducts returns the full product list published by the shop.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	requestURL, err := c.requestURL()
	if err != nil {
		return nil, fmt.Errorf("error building request url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shop api returned status %d", resp.StatusCode)
	}

	var productList ProductListResponse
	if err := json.Unmarshal(body, &productList); err != nil {
		return nil, fmt.Errorf("error parsing JSON response: %w", err)
	}

	if !productList.Success {
		return nil, ErrUnsuccessful
	}

	for i := range productList.Products {
		if productList.Products[i].Name == "" {
			productList.Products[i].Name = unknownProductName
		}
	}

	log.Printf("Received %d products in API response.", len(productList.Products))
	return productList.Products, nil
}
