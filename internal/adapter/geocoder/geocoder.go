package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/entity"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var tracer = otel.Tracer("github.com/pratoapp/prato/adapter/geocoder")

// Result is a resolved coordinate pair with its provider place identifier.
type Result struct {
	Latitude  float64
	Longitude float64
	PlaceID   string
}

// Resolver converts a formatted postal address into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address, apiKey string) (*Result, error)
}

// Module provides the geocoding client as the Resolver implementation.
var Module = fx.Provide(
	fx.Annotate(NewClient, fx.As(new(Resolver))),
)

// Client calls the Google geocoding API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a geocoding client with the configured request timeout.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.Geocoder.BaseURL,
		http:    &http.Client{Timeout: cfg.Geocoder.Timeout},
		logger:  logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

// Resolve geocodes the address with the store's API key.
func (c *Client) Resolve(ctx context.Context, address, apiKey string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Geocoder.Resolve", trace.WithAttributes(attribute.String("geocode.address", address)))
	defer span.End()

	if strings.TrimSpace(address) == "" {
		return nil, errorbank.BadRequest("address is required")
	}
	if apiKey == "" {
		return nil, errorbank.Unprocessable("store has no geocoding key configured")
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errorbank.Internal("could not build geocoding request", errorbank.WithCause(err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "request failed")
		return nil, errorbank.Upstream("the address service is unavailable", errorbank.WithCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(otelcodes.Error, "unexpected status")
		return nil, errorbank.Upstream(fmt.Sprintf("the address service answered with status %d", resp.StatusCode))
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		return nil, errorbank.Upstream("the address service answered with an unreadable payload", errorbank.WithCause(err))
	}

	switch payload.Status {
	case "OK":
		// resolved
	case "ZERO_RESULTS":
		return nil, errorbank.NotFound("the address could not be located")
	default:
		if c.logger != nil {
			c.logger.Warn("geocoding rejected", zap.String("status", payload.Status))
		}
		return nil, errorbank.Upstream("the address could not be resolved right now")
	}

	if len(payload.Results) == 0 {
		return nil, errorbank.NotFound("the address could not be located")
	}

	first := payload.Results[0]
	return &Result{
		Latitude:  first.Geometry.Location.Lat,
		Longitude: first.Geometry.Location.Lng,
		PlaceID:   first.PlaceID,
	}, nil
}

// FormatAddress flattens stored address fields into one geocoding query:
// "street, number[, neighborhood] - city/state, postal, country".
func FormatAddress(addr *entity.Address, country string) string {
	if addr == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(addr.Street))
	if n := strings.TrimSpace(addr.Number); n != "" {
		b.WriteString(", ")
		b.WriteString(n)
	}
	if nb := strings.TrimSpace(addr.Neighborhood); nb != "" {
		b.WriteString(", ")
		b.WriteString(nb)
	}
	b.WriteString(" - ")
	b.WriteString(strings.TrimSpace(addr.City))
	b.WriteString("/")
	b.WriteString(strings.TrimSpace(addr.State))
	if pc := strings.TrimSpace(addr.PostalCode); pc != "" {
		b.WriteString(", ")
		b.WriteString(pc)
	}
	if country != "" {
		b.WriteString(", ")
		b.WriteString(country)
	}
	return b.String()
}
