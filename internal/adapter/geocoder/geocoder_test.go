package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/entity"
	"github.com/pratoapp/prato/pkg/errorbank"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{baseURL: srv.URL, http: srv.Client(), logger: zap.NewNop()}
}

func TestResolve(t *testing.T) {
	t.Run("resolves coordinates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Rua das Flores, 100 - Campinas/SP, Brasil", r.URL.Query().Get("address"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": "OK",
				"results": [{
					"geometry": {"location": {"lat": -22.9056, "lng": -47.0608}},
					"place_id": "ChIJ0WGkg4FEzpQRrlsz_whLqZs"
				}]
			}`))
		}))
		defer srv.Close()

		result, err := newTestClient(srv).Resolve(context.Background(), "Rua das Flores, 100 - Campinas/SP, Brasil", "test-key")
		require.NoError(t, err)
		assert.Equal(t, -22.9056, result.Latitude)
		assert.Equal(t, -47.0608, result.Longitude)
		assert.Equal(t, "ChIJ0WGkg4FEzpQRrlsz_whLqZs", result.PlaceID)
	})

	t.Run("zero results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv).Resolve(context.Background(), "nowhere", "test-key")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("provider rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv).Resolve(context.Background(), "somewhere", "bad-key")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv).Resolve(context.Background(), "somewhere", "test-key")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
	})

	t.Run("empty address", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		_, err := newTestClient(srv).Resolve(context.Background(), "  ", "test-key")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("missing api key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		_, err := newTestClient(srv).Resolve(context.Background(), "somewhere", "")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})
}

func TestFormatAddress(t *testing.T) {
	t.Run("full address", func(t *testing.T) {
		got := FormatAddress(&entity.Address{
			Street:       "Rua das Flores",
			Number:       "100",
			Neighborhood: "Centro",
			City:         "Campinas",
			State:        "SP",
			PostalCode:   "13010-000",
		}, "Brasil")
		assert.Equal(t, "Rua das Flores, 100, Centro - Campinas/SP, 13010-000, Brasil", got)
	})

	t.Run("minimal address", func(t *testing.T) {
		got := FormatAddress(&entity.Address{Street: "Rua A", City: "Campinas", State: "SP"}, "")
		assert.Equal(t, "Rua A - Campinas/SP", got)
	})

	t.Run("nil address", func(t *testing.T) {
		assert.Empty(t, FormatAddress(nil, "Brasil"))
	})
}
