package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	listingapp "rentzy/internal/app/handlers/listings"
	"rentzy/internal/app/queries"
	domainuser "rentzy/internal/domain/user"
)

type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h ListingHandler) Catalog(c *gin.Context) {
	q := listingapp.SearchCatalogQuery{
		CategoryID: parseIntQuery(c, "category_id"),
		Search:     c.Query("search"),
		Page:       int(parseIntQuery(c, "page")),
		PerPage:    int(parseIntQuery(c, "per_page")),
	}
	catalog, err := queries.Ask[listingapp.SearchCatalogQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h ListingHandler) Categories(c *gin.Context) {
	collection, err := queries.Ask[listingapp.ListCategoriesQuery, dto.CategoryCollection](c.Request.Context(), h.Queries, listingapp.ListCategoriesQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

type createListingRequest struct {
	CategoryID  int64   `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PricePerDay float64 `json:"price_per_day"`
	Location    string  `json:"location"`
}

func (h ListingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		OwnerID:     user.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Location:    req.Location,
	}
	view, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.ListingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h ListingHandler) SetAvailability(c *gin.Context) {
	user, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.SetAvailabilityCommand{
		ListingID: id,
		OwnerID:   user.ID,
		Available: *req.Available,
	}
	view, err := commands.Dispatch[listingapp.SetAvailabilityCommand, *dto.ListingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func parseIntQuery(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

var _ ListingHTTP = ListingHandler{}
