package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentzy/internal/app/dto"
	meapp "rentzy/internal/app/handlers/me"
	"rentzy/internal/app/queries"
)

type MeHandler struct {
	Queries queries.Bus
}

func (h MeHandler) ListBookings(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := meapp.ListRenterBookingsQuery{RenterID: user.ID}
	collection, err := queries.Ask[meapp.ListRenterBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

var _ MeHTTP = MeHandler{}
