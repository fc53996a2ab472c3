package catalog

import (
	"context"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CatalogUseCase interface {
	GetOffer(ctx context.Context, flightID int64) (*Offer, error)
	TicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error)
	Addons(ctx context.Context) ([]domain.AddonOption, error)
	Search(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error)
	Airports(ctx context.Context, q string) ([]domain.Airport, error)
}

// Upstream is the part of the booking API the catalog reads from.
type Upstream interface {
	GetFlight(ctx context.Context, flightID int64) (domain.FlightOffer, error)
	SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	SearchAirports(ctx context.Context, query string) ([]domain.Airport, error)
	GetTicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error)
	GetAddonCatalog(ctx context.Context) ([]domain.AddonCategory, error)
}

type ReferenceCache interface {
	GetTicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error)
	SetTicketTypes(ctx context.Context, flightID int64, types []domain.TicketType) error
	GetAddons(ctx context.Context) ([]domain.AddonCategory, error)
	SetAddons(ctx context.Context, categories []domain.AddonCategory) error
}

// Offer is everything the flight-detail view prices a draft against.
type Offer struct {
	Flight          domain.FlightOffer     `json:"flight"`
	TicketTypes     []domain.TicketType    `json:"ticket_types"`
	AddonCategories []domain.AddonCategory `json:"addon_categories"`
}

func (o *Offer) ActiveAddons() []domain.AddonOption {
	return domain.ActiveAddons(o.AddonCategories)
}

type CatalogService struct {
	upstream Upstream
	cache    ReferenceCache
	log      *zap.Logger
}

// NewCatalogService accepts a nil cache; reference data is then always fetched.
func NewCatalogService(upstream Upstream, cache ReferenceCache, log *zap.Logger) *CatalogService {
	return &CatalogService{upstream: upstream, cache: cache, log: log}
}

func (s *CatalogService) GetOffer(ctx context.Context, flightID int64) (*Offer, error) {
	offer := &Offer{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.upstream.GetFlight(gctx, flightID)
		offer.Flight = f
		return err
	})
	g.Go(func() error {
		types, err := s.TicketTypes(gctx, flightID)
		offer.TicketTypes = types
		return err
	})
	g.Go(func() error {
		categories, err := s.addonCategories(gctx)
		offer.AddonCategories = categories
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *CatalogService) TicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error) {
	if s.cache != nil {
		cached, err := s.cache.GetTicketTypes(ctx, flightID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.log.Warn("ticket type cache read failed", zap.Int64("flight_id", flightID), zap.Error(err))
		}
	}

	types, err := s.upstream.GetTicketTypes(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTicketTypes(ctx, flightID, types); err != nil {
			s.log.Warn("ticket type cache write failed", zap.Int64("flight_id", flightID), zap.Error(err))
		}
	}
	return types, nil
}

// Addons returns the active add-on options across all categories.
func (s *CatalogService) Addons(ctx context.Context) ([]domain.AddonOption, error) {
	categories, err := s.addonCategories(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ActiveAddons(categories), nil
}

func (s *CatalogService) addonCategories(ctx context.Context) ([]domain.AddonCategory, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAddons(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.log.Warn("addon cache read failed", zap.Error(err))
		}
	}

	categories, err := s.upstream.GetAddonCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetAddons(ctx, categories); err != nil {
			s.log.Warn("addon cache write failed", zap.Error(err))
		}
	}
	return categories, nil
}

func (s *CatalogService) Search(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	return s.upstream.SearchFlights(ctx, q)
}

// Airports lists every airport when q is blank.
func (s *CatalogService) Airports(ctx context.Context, q string) ([]domain.Airport, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.upstream.ListAirports(ctx)
	}
	return s.upstream.SearchAirports(ctx, q)
}

var _ CatalogUseCase = (*CatalogService)(nil)
