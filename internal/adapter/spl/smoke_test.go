//go:build spl

package spl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splgeo/spl-areas/internal/domain"
	"github.com/splgeo/spl-areas/internal/observability"
)

// These tests hit the real SPL portal and need outbound network access.
// Run with: go test -tags=spl ./internal/adapter/spl/ -v -count=1

func smokeClient() *Client {
	return &Client{
		baseURL:    "https://maps.splonline.com.sa",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestSmoke_FetchCities(t *testing.T) {
	cities, err := smokeClient().FetchCities(context.Background(), domain.Arabic)
	require.NoError(t, err)

	// The Kingdom has thousands of cities; anything short of that means the
	// portal changed shape on us.
	assert.Greater(t, len(cities), 100)
	for _, city := range cities[:10] {
		assert.NotEmpty(t, city.ID)
		assert.NotEmpty(t, city.Name)
	}
}

func TestSmoke_FetchDistricts(t *testing.T) {
	c := smokeClient()

	cities, err := c.FetchCities(context.Background(), domain.English)
	require.NoError(t, err)
	require.NotEmpty(t, cities)

	districts, err := c.FetchDistricts(context.Background(), cities[0].ID, domain.English)
	require.NoError(t, err)
	for _, district := range districts {
		assert.Equal(t, cities[0].ID, district.CityID)
		assert.NotEmpty(t, district.Name)
	}
}
