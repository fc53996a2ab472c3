package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

const searchDateLayout = "02/01/2006"

type FlightHandler struct {
	service catalog.CatalogUseCase
}

type flightSearchQuery struct {
	Date  string `form:"date"`
	From  string `form:"from"`
	To    string `form:"to"`
	Skip  int    `form:"skip" binding:"min=0"`
	Limit int    `form:"limit" binding:"min=0,max=100"`
}

type offerResponse struct {
	Flight          domain.FlightOffer     `json:"flight"`
	DurationMinutes int64                  `json:"duration_minutes"`
	TicketTypes     []domain.TicketType    `json:"ticket_types"`
	AddonCategories []domain.AddonCategory `json:"addon_categories"`
}

func NewFlightHandler(service catalog.CatalogUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.search)
	router.GET("/flights/:id", h.get)
	router.GET("/airports", h.airports)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q flightSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	query := domain.FlightQuery{
		DepartureAirportID: q.From,
		ArrivalAirportID:   q.To,
		Skip:               q.Skip,
		Limit:              q.Limit,
	}
	if q.Date != "" {
		date, err := time.Parse(searchDateLayout, q.Date)
		if err != nil {
			badRequest(c, "date must be dd/mm/yyyy")
			return
		}
		query.Date = date
	}

	flights, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	offer, err := h.service.GetOffer(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, offerResponse{
		Flight:          offer.Flight,
		DurationMinutes: int64(offer.Flight.Duration() / time.Minute),
		TicketTypes:     offer.TicketTypes,
		AddonCategories: offer.AddonCategories,
	})
}

func (h *FlightHandler) airports(c *gin.Context) {
	airports, err := h.service.Airports(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}
