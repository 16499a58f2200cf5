package deliveryfee

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/adapter/geocoder"
	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/entity"
	customerrepo "github.com/pratoapp/prato/internal/repository/customer"
	arearepo "github.com/pratoapp/prato/internal/repository/deliveryarea"
	storerepo "github.com/pratoapp/prato/internal/repository/store"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/deliveryfee")

// CustomerReader loads a customer with their delivery address.
type CustomerReader interface {
	GetWithAddress(ctx context.Context, id int64) (*entity.Customer, error)
}

// StoreReader exposes the store's geocoding credentials.
type StoreReader interface {
	GeocoderKey(ctx context.Context, storeID int64) (string, error)
}

// AreaReader loads the store's configured delivery areas.
type AreaReader interface {
	TierBands(ctx context.Context, storeID int64) ([]arearepo.TierBand, error)
	ZonesByLocality(ctx context.Context, storeID int64, city, state string) ([]*entity.DeliveryAreaZone, error)
}

// Quote is a successful fee resolution.
type Quote struct {
	FeeCents   int64
	DistanceKm float64
	Message    string
}

// Service resolves whether a customer is servable and at which fee.
type Service struct {
	customers CustomerReader
	stores    StoreReader
	areas     AreaReader
	geocoder  geocoder.Resolver
	policy    string
	country   string
	logger    *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Customers *customerrepo.Repository
	Stores    *storerepo.Repository
	Areas     *arearepo.Repository
	Geocoder  geocoder.Resolver
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		customers: p.Customers,
		stores:    p.Stores,
		areas:     p.Areas,
		geocoder:  p.Geocoder,
		policy:    p.Config.Delivery.OutOfRangePolicy,
		country:   p.Config.Geocoder.Country,
		logger:    p.Logger,
	}
}

// Resolve geocodes the customer's stored address and matches it against the
// store's radius bands, falling back to locality zones. Read-only.
func (s *Service) Resolve(ctx context.Context, customerID, storeID int64) (*Quote, error) {
	ctx, span := serviceTracer.Start(ctx, "DeliveryFeeService.Resolve", trace.WithAttributes(
		attribute.Int64("customer.id", customerID),
		attribute.Int64("store.id", storeID),
	))
	defer span.End()

	customer, err := s.customers.GetWithAddress(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) || errors.Is(err, customerrepo.ErrNoAddress) {
			return nil, errorbank.NotFound("customer address not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "customer lookup failed")
		return nil, errorbank.Internal("failed to load customer", errorbank.WithCause(err))
	}

	apiKey, err := s.stores.GeocoderKey(ctx, storeID)
	if err != nil {
		if errors.Is(err, storerepo.ErrNotFound) {
			return nil, errorbank.NotFound("store not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "store lookup failed")
		return nil, errorbank.Internal("failed to load store", errorbank.WithCause(err))
	}

	location, err := s.geocoder.Resolve(ctx, geocoder.FormatAddress(customer.Address, s.country), apiKey)
	if err != nil {
		return nil, err
	}

	bands, err := s.areas.TierBands(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "area lookup failed")
		return nil, errorbank.Internal("failed to load delivery areas", errorbank.WithCause(err))
	}

	if quote := s.resolveRadius(bands, location.Latitude, location.Longitude); quote != nil {
		return quote, nil
	}

	if quote, err := s.resolveZone(ctx, storeID, customer.Address); err != nil || quote != nil {
		return quote, err
	}

	if len(bands) == 0 {
		return nil, errorbank.NotFound("this store has no delivery area configured")
	}
	return nil, errorbank.Unprocessable("the address is outside the delivery area")
}

// areaEval accumulates one center's bands with the customer's distance to it.
type areaEval struct {
	distanceKm float64
	maxKm      int
	bands      []arearepo.TierBand
}

// resolveRadius matches the point against radius bands. The nearest center
// whose outermost band still covers the point wins; within it, the fee is
// the smallest band at or beyond the actual distance. When no center covers
// the point the out-of-range policy decides between clamping to the nearest
// center's largest band and giving up.
func (s *Service) resolveRadius(bands []arearepo.TierBand, lat, lng float64) *Quote {
	if len(bands) == 0 {
		return nil
	}

	evals := make(map[int64]*areaEval)
	for _, band := range bands {
		eval, ok := evals[band.AreaID]
		if !ok {
			eval = &areaEval{distanceKm: HaversineKm(lat, lng, band.CenterLatitude, band.CenterLongitude)}
			evals[band.AreaID] = eval
		}
		eval.bands = append(eval.bands, band)
		if band.DistanceKm > eval.maxKm {
			eval.maxKm = band.DistanceKm
		}
	}

	var best, nearest *areaEval
	for _, eval := range evals {
		if nearest == nil || eval.distanceKm < nearest.distanceKm {
			nearest = eval
		}
		if eval.distanceKm > float64(eval.maxKm) {
			continue
		}
		if best == nil || eval.distanceKm < best.distanceKm {
			best = eval
		}
	}

	if best != nil {
		for _, band := range best.bands {
			if float64(band.DistanceKm) >= best.distanceKm {
				return quoteFor(band.PriceCents, best.distanceKm)
			}
		}
	}

	if s.policy == config.OutOfRangeClamp && nearest != nil && len(nearest.bands) > 0 {
		widest := nearest.bands[len(nearest.bands)-1]
		return quoteFor(widest.PriceCents, nearest.distanceKm)
	}

	return nil
}

// resolveZone falls back to flat-fee locality zones. A zone naming the
// customer's neighborhood beats a city-wide one.
func (s *Service) resolveZone(ctx context.Context, storeID int64, addr *entity.Address) (*Quote, error) {
	zones, err := s.areas.ZonesByLocality(ctx, storeID, addr.City, addr.State)
	if err != nil {
		return nil, errorbank.Internal("failed to load delivery zones", errorbank.WithCause(err))
	}
	if len(zones) == 0 {
		return nil, nil
	}

	neighborhood := arearepo.Normalize(addr.Neighborhood)
	var cityWide *entity.DeliveryAreaZone
	for _, zone := range zones {
		if zone.Neighborhood == "" {
			if cityWide == nil {
				cityWide = zone
			}
			continue
		}
		if zone.Neighborhood == neighborhood {
			return quoteFor(zone.FeeCents, 0), nil
		}
	}
	if cityWide != nil {
		return quoteFor(cityWide.FeeCents, 0), nil
	}
	return nil, nil
}

func quoteFor(feeCents int64, distanceKm float64) *Quote {
	return &Quote{
		FeeCents:   feeCents,
		DistanceKm: distanceKm,
		Message:    fmt.Sprintf("Delivery available for R$ %.2f", float64(feeCents)/100),
	}
}
