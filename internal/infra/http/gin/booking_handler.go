package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	bookingapp "rentzy/internal/app/handlers/booking"
)

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	ListingID int64  `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		RenterID:        user.ID,
		ListingID:       req.ListingID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	view, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, func(id int64) (any, error) {
		return commands.Dispatch[bookingapp.ConfirmBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, bookingapp.ConfirmBookingCommand{BookingID: id})
	})
}

func (h BookingHandler) Activate(c *gin.Context) {
	h.transition(c, func(id int64) (any, error) {
		return commands.Dispatch[bookingapp.ActivateBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, bookingapp.ActivateBookingCommand{BookingID: id})
	})
}

func (h BookingHandler) Complete(c *gin.Context) {
	h.transition(c, func(id int64) (any, error) {
		return commands.Dispatch[bookingapp.CompleteBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, bookingapp.CompleteBookingCommand{BookingID: id})
	})
}

func (h BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, func(id int64) (any, error) {
		return commands.Dispatch[bookingapp.CancelBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, bookingapp.CancelBookingCommand{BookingID: id})
	})
}

func (h BookingHandler) transition(c *gin.Context, dispatch func(id int64) (any, error)) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	view, err := dispatch(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

var _ BookingHTTP = BookingHandler{}
