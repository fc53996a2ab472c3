package bookingapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

// flightDateLayout is the dd/MM/yyyy form the flight search expects.
const flightDateLayout = "02/01/2006"

func (c *Client) GetFlight(ctx context.Context, flightID int64) (domain.FlightOffer, error) {
	var w flightWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/flights/%d", flightID), nil, nil, &w); err != nil {
		return domain.FlightOffer{}, err
	}
	return c.toFlight(w)
}

func (c *Client) SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	params := url.Values{}
	if !q.Date.IsZero() {
		params.Set("flight_date", q.Date.Format(flightDateLayout))
	}
	if q.DepartureAirportID != "" {
		params.Set("departure_airport_id", q.DepartureAirportID)
	}
	if q.ArrivalAirportID != "" {
		params.Set("arrival_airport_id", q.ArrivalAirportID)
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var ws []flightWire
	if err := c.do(ctx, http.MethodGet, "/flights/", params, nil, &ws); err != nil {
		return nil, err
	}
	flights := make([]domain.FlightOffer, 0, len(ws))
	for _, w := range ws {
		f, err := c.toFlight(w)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func (c *Client) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return c.airports(ctx, "/airports", nil)
}

func (c *Client) SearchAirports(ctx context.Context, query string) ([]domain.Airport, error) {
	return c.airports(ctx, "/airports/search", url.Values{"q": {query}})
}

func (c *Client) airports(ctx context.Context, path string, params url.Values) ([]domain.Airport, error) {
	var ws []airportWire
	if err := c.do(ctx, http.MethodGet, path, params, nil, &ws); err != nil {
		return nil, err
	}
	airports := make([]domain.Airport, 0, len(ws))
	for _, w := range ws {
		airports = append(airports, w.toDomain())
	}
	return airports, nil
}

// GetTicketTypes returns the fare classes with prices calculated for flightID.
func (c *Client) GetTicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error) {
	var ws []ticketTypeWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ticket-options/%d", flightID), nil, nil, &ws); err != nil {
		return nil, err
	}
	types := make([]domain.TicketType, 0, len(ws))
	for _, w := range ws {
		types = append(types, w.toDomain())
	}
	return types, nil
}

func (c *Client) GetAddonCatalog(ctx context.Context) ([]domain.AddonCategory, error) {
	var ws []addonCategoryWire
	if err := c.do(ctx, http.MethodGet, "/ticket-options/addon-options", nil, nil, &ws); err != nil {
		return nil, err
	}
	categories := make([]domain.AddonCategory, 0, len(ws))
	for _, w := range ws {
		categories = append(categories, w.toDomain())
	}
	return categories, nil
}
