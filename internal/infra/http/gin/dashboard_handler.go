package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentzy/internal/app/dto"
	dashboardapp "rentzy/internal/app/handlers/dashboard"
	"rentzy/internal/app/queries"
	domainuser "rentzy/internal/domain/user"
)

type DashboardHandler struct {
	Queries queries.Bus
}

// Stats reports the dashboard counters for the caller's role. An
// explicit role query parameter overrides it for dual-role accounts.
func (h DashboardHandler) Stats(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	role := user.Role
	if raw := c.Query("role"); raw != "" {
		parsed, err := domainuser.ParseRole(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		role = parsed
	}
	q := dashboardapp.GetStatsQuery{UserID: user.ID, Role: role}
	snap, err := queries.Ask[dashboardapp.GetStatsQuery, dto.StatsSnapshot](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

var _ DashboardHTTP = DashboardHandler{}
