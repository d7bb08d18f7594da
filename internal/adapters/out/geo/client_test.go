package geo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"returns/internal/adapters/out/geo"
	"returns/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ResolveMiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/distance", r.URL.Path)
		assert.Equal(t, "500 Market St", r.URL.Query().Get("origin"))
		assert.Equal(t, "Acme Retail", r.URL.Query().Get("destination"))
		_, _ = w.Write([]byte(`{"miles":5.2}`))
	}))
	defer server.Close()

	client := geo.NewClient(server.URL)
	miles, err := client.ResolveMiles(t.Context(), "500 Market St", "Acme Retail")

	require.NoError(t, err)
	assert.InDelta(t, 5.2, miles, 0.0001)
}

func TestClient_ResolveMiles_ProviderDown_IsPricingUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := geo.NewClient(server.URL)
	_, err := client.ResolveMiles(t.Context(), "500 Market St", "Acme Retail")

	require.ErrorIs(t, err, ports.ErrPricingUnavailable)
}

func TestClient_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode", r.URL.Path)
		_, _ = w.Write([]byte(`{"lat":37.7749,"lon":-122.4194}`))
	}))
	defer server.Close()

	client := geo.NewClient(server.URL)
	point, err := client.Geocode(t.Context(), "500 Market St")

	require.NoError(t, err)
	assert.InDelta(t, 37.7749, point.Latitude(), 0.0001)
	assert.InDelta(t, -122.4194, point.Longitude(), 0.0001)
}

func TestClient_Geocode_InvalidCoordinates_IsPricingUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"lat":999,"lon":0}`))
	}))
	defer server.Close()

	client := geo.NewClient(server.URL)
	_, err := client.Geocode(t.Context(), "nowhere")

	require.ErrorIs(t, err, ports.ErrPricingUnavailable)
}
