package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	bookings := router.Group("/bookings")
	bookings.GET("", h.list)
	bookings.GET("/:id", h.get)

	write := bookings.Group("", mutating...)
	write.POST("/:id/confirm", h.confirm)
	write.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
