package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tintpro-backend/models"
)

const priceSelect = "id,amount,square_id,vehicle_types!inner(slug),services(name,categories(slug))"

// RESTPriceSource queries the hosted PostgREST endpoint.
type RESTPriceSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTPriceSource(supabaseURL, apiKey string, timeout time.Duration) *RESTPriceSource {
	return &RESTPriceSource{
		baseURL: strings.TrimRight(supabaseURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *RESTPriceSource) FetchPrices(ctx context.Context, vehicle models.VehicleCategory) ([]PriceRow, error) {
	q := url.Values{}
	q.Set("select", priceSelect)
	q.Set("vehicle_types.slug", "eq."+string(vehicle))
	q.Set("order", "amount.asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/prices?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch prices: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []PriceRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	return rows, nil
}
