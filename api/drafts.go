package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	service booking.BookingUseCase
}

type openDraftRequest struct {
	FlightID int64 `json:"flight_id" binding:"required,gt=0"`
}

// updatePassengerRequest applies whichever fields are present.
type updatePassengerRequest struct {
	Name         *string `json:"name"`
	TicketTypeID *int64  `json:"ticket_type_id"`
}

func NewDraftHandler(service booking.BookingUseCase) *DraftHandler {
	return &DraftHandler{service: service}
}

// Register takes the group for mutating routes separately so they can be rate limited.
func (h *DraftHandler) Register(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	drafts := router.Group("/drafts")
	drafts.GET("/:id", h.get)

	write := drafts.Group("", mutating...)
	write.POST("", h.open)
	write.DELETE("/:id", h.discard)
	write.POST("/:id/passengers", h.addPassenger)
	write.DELETE("/:id/passengers/:index", h.removePassenger)
	write.PATCH("/:id/passengers/:index", h.updatePassenger)
	write.POST("/:id/passengers/:index/addons/:addonId", h.toggleAddon)
	write.POST("/:id/submit", h.submit)
}

func (h *DraftHandler) open(c *gin.Context) {
	var req openDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	q, err := h.service.OpenDraft(c.Request.Context(), req.FlightID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *DraftHandler) get(c *gin.Context) {
	q, err := h.service.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *DraftHandler) discard(c *gin.Context) {
	if err := h.service.DiscardDraft(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) addPassenger(c *gin.Context) {
	q, err := h.service.AddPassenger(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *DraftHandler) removePassenger(c *gin.Context) {
	index, ok := passengerIndex(c)
	if !ok {
		return
	}
	q, err := h.service.RemovePassenger(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *DraftHandler) updatePassenger(c *gin.Context) {
	index, ok := passengerIndex(c)
	if !ok {
		return
	}
	var req updatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Name == nil && req.TicketTypeID == nil {
		badRequest(c, "nothing to update")
		return
	}

	q, err := h.service.UpdatePassenger(c.Request.Context(), c.Param("id"), index, booking.PassengerUpdate{
		Name:         req.Name,
		TicketTypeID: req.TicketTypeID,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *DraftHandler) toggleAddon(c *gin.Context) {
	index, ok := passengerIndex(c)
	if !ok {
		return
	}
	addonID, err := strconv.ParseInt(c.Param("addonId"), 10, 64)
	if err != nil {
		badRequest(c, "invalid addon id")
		return
	}
	q, err := h.service.ToggleAddon(c.Request.Context(), c.Param("id"), index, addonID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *DraftHandler) submit(c *gin.Context) {
	details, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, details)
}

func passengerIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid passenger index")
		return 0, false
	}
	return index, true
}
