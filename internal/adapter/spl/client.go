package spl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

// Endpoint paths under the portal base URL.
const (
	citiesPath    = "/Home/GetCities"
	districtsPath = "/Home/GetDistricts"
)

// userAgent matches the browser profile the portal's address-lookup page is
// served to. The endpoints shed requests that don't look like the UI's own
// XHR calls.
const userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/117.0"

// Client fetches cities and districts from the SPL maps portal.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a portal client. baseURL carries no trailing slash.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchCities retrieves every city in the Kingdom with names in lang.
// Records without a city identifier or without a name in the selected
// language make the whole call fail; the region reference passes through
// as-is and is checked during assembly.
func (c *Client) FetchCities(ctx context.Context, lang domain.Language) ([]domain.City, error) {
	var records []cityRecord
	if err := c.post(ctx, "cities", citiesPath, json.Number("0"), &records); err != nil {
		return nil, err
	}

	cities := make([]domain.City, 0, len(records))
	for i, rec := range records {
		id := rec.ID.String()
		if id == "" || id == "0" {
			return nil, fmt.Errorf("city record %d has no pkCityID: %w", i, domain.ErrParse)
		}
		name := pickName(lang, rec.ArabicName, rec.EnglishName)
		if name == "" {
			return nil, fmt.Errorf("city %s has no %s name: %w", id, lang, domain.ErrParse)
		}
		cities = append(cities, domain.City{
			ID:       id,
			RegionID: rec.RegionID.String(),
			Name:     name,
		})
	}

	c.logger.Info("cities fetched", "count", len(cities))
	return cities, nil
}

// FetchDistricts retrieves the districts of one city with names in lang.
// An empty reply is a city without districts, not an error. Districts whose
// fkCityID contradicts the requested city are logged and dropped.
func (c *Client) FetchDistricts(ctx context.Context, cityID string, lang domain.Language) ([]domain.District, error) {
	var records []districtRecord
	if err := c.post(ctx, "districts", districtsPath, json.Number(cityID), &records); err != nil {
		return nil, err
	}

	districts := make([]domain.District, 0, len(records))
	for i, rec := range records {
		id := rec.ID.String()
		if id == "" || id == "0" {
			return nil, fmt.Errorf("district record %d for city %s has no pkDistrictID: %w", i, cityID, domain.ErrParse)
		}
		if owner := rec.CityID.String(); owner != "" && owner != "0" && owner != cityID {
			c.logger.Warn("district references another city, dropping",
				"district_id", id, "requested_city_id", cityID, "fk_city_id", owner)
			c.metrics.DistrictsDropped.Inc()
			continue
		}
		name := pickName(lang, rec.ArabicName, rec.EnglishName)
		if name == "" {
			return nil, fmt.Errorf("district %s has no %s name: %w", id, lang, domain.ErrParse)
		}
		districts = append(districts, domain.District{
			ID:     id,
			CityID: cityID,
			Name:   name,
		})
	}

	c.logger.Debug("districts fetched", "city_id", cityID, "count", len(districts))
	return districts, nil
}

// post sends the JSON body both endpoints accept and decodes the array reply.
func (c *Client) post(ctx context.Context, endpoint, path string, cityID json.Number, out any) error {
	payload, err := json.Marshal(request{CityID: cityID})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.PortalRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.PortalRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w: %w", endpoint, domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.PortalRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s request: %w: status %d: %s", endpoint, domain.ErrFetch, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.PortalRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w: %w", endpoint, domain.ErrParse, err)
	}

	c.metrics.PortalRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// setHeaders mimics the portal UI's own XHR calls.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
}

func pickName(lang domain.Language, arabic, english string) string {
	if lang == domain.English {
		return strings.TrimSpace(english)
	}
	return strings.TrimSpace(arabic)
}

// Portal wire types. Identifiers arrive as numbers or strings depending on
// the record, hence json.Number.

// request is the body both endpoints accept. cityId 0 on GetCities selects
// every city in the Kingdom.
type request struct {
	CityID json.Number `json:"cityId"`
}

type cityRecord struct {
	ID          json.Number `json:"pkCityID"`
	RegionID    json.Number `json:"fkEmirateID"`
	ArabicName  string      `json:"ArabicName"`
	EnglishName string      `json:"EnglishName"`
}

type districtRecord struct {
	ID          json.Number `json:"pkDistrictID"`
	CityID      json.Number `json:"fkCityID"`
	ArabicName  string      `json:"ArabicName"`
	EnglishName string      `json:"EnglishName"`
}
