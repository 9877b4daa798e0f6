package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sitemapgen/pkg/models"
)

// ListPath is the catalogue endpoint relative to the API root.
const ListPath = "/api/product/list"

// ErrUnexpectedStatus is returned when the API answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// APISource fetches the product list from the backend API.
type APISource struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewAPISource(baseURL, userAgent string, timeout time.Duration) *APISource {
	return &APISource{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

// List issues a single GET and decodes {"products": [...]}.
// A body without a products field yields an empty list.
func (s *APISource) List(ctx context.Context) ([]models.Product, error) {
	body, err := s.fetch(ctx, s.BaseURL+ListPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var list models.ProductList
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	if list.Products == nil {
		return []models.Product{}, nil
	}
	return list.Products, nil
}

func (s *APISource) fetch(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", targetURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w %d", targetURL, ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
