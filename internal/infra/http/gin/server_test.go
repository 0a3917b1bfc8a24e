package ginserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	bookingapp "rentzy/internal/app/handlers/booking"
	dashboardapp "rentzy/internal/app/handlers/dashboard"
	listingapp "rentzy/internal/app/handlers/listings"
	meapp "rentzy/internal/app/handlers/me"
	"rentzy/internal/app/middleware"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/services/auth"
	domaincategory "rentzy/internal/domain/category"
	domainrange "rentzy/internal/domain/shared/daterange"
	"rentzy/internal/infra/config"
	ginserver "rentzy/internal/infra/http/gin"
	"rentzy/internal/infra/obs"
	"rentzy/internal/infra/security"
	"rentzy/internal/infra/storage/memory"
)

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	factory := memory.NewFactory(store)
	box := memory.NewOutbox()

	for _, cat := range domaincategory.Defaults() {
		require.NoError(t, store.Categories.Save(ctx, cat))
	}

	authService := &auth.Service{
		UoWFactory: factory,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
	}

	commandBus := commands.NewInMemoryBus()
	commands.Register[bookingapp.CreateBookingCommand, *dto.BookingView](commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{UoWFactory: factory, Outbox: box})
	bookingapp.RegisterTransitions(commandBus, &bookingapp.TransitionHandler{UoWFactory: factory, Outbox: box})
	commands.Register[listingapp.CreateListingCommand, *dto.ListingView](commandBus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{UoWFactory: factory})
	commands.Register[listingapp.SetAvailabilityCommand, *dto.ListingView](commandBus, listingapp.SetAvailabilityCommand{}.Key(), &listingapp.SetAvailabilityHandler{UoWFactory: factory})

	queryBus := queries.NewInMemoryBus()
	queries.Register[listingapp.SearchCatalogQuery, dto.ListingCatalog](queryBus, listingapp.SearchCatalogQuery{}.Key(), &listingapp.SearchCatalogHandler{UoWFactory: factory})
	queries.Register[listingapp.ListCategoriesQuery, dto.CategoryCollection](queryBus, listingapp.ListCategoriesQuery{}.Key(), &listingapp.ListCategoriesHandler{UoWFactory: factory})
	queries.Register[meapp.ListRenterBookingsQuery, dto.BookingCollection](queryBus, meapp.ListRenterBookingsQuery{}.Key(), &meapp.ListRenterBookingsHandler{UoWFactory: factory})
	queries.Register[dashboardapp.GetStatsQuery, dto.StatsSnapshot](queryBus, dashboardapp.GetStatsQuery{}.Key(), &dashboardapp.GetStatsHandler{UoWFactory: factory})

	dispatcher := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(memory.NewIdempotencyStore()),
		middleware.Transaction(factory),
		middleware.OutboxFlush(box),
	)
	asker := middleware.ChainQueries(queryBus, middleware.ReadOnlyTransaction(factory))

	authMW := ginserver.AuthMiddleware{Service: authService}
	server := ginserver.NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, ginserver.Handlers{
		Booking:        ginserver.BookingHandler{Commands: dispatcher},
		Listing:        ginserver.ListingHandler{Commands: dispatcher, Queries: asker},
		Auth:           ginserver.AuthHandler{Service: authService},
		Me:             ginserver.MeHandler{Queries: asker},
		Dashboard:      ginserver.DashboardHandler{Queries: asker},
		AuthMiddleware: authMW.Handle,
	})
	return &api{t: t, handler: server.Handler}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) register(email, phone, nationalID, taxID, role string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":        "Test " + email,
		"email":       email,
		"phone":       phone,
		"national_id": nationalID,
		"tax_id":      taxID,
		"password":    "sup3rsecret",
		"user_type":   role,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *api) createListing(token string) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/listings", token, map[string]any{
		"category_id":   1,
		"title":         "City Bike",
		"description":   "Good brakes",
		"price_per_day": 500.0,
		"location":      "Pune",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var view dto.ListingView
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view.ID
}

func dateFromNow(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(domainrange.Layout)
}

func bookingBody(listingID int64, fromDays, toDays int) map[string]any {
	return map[string]any{
		"listing_id": listingID,
		"start_date": dateFromNow(fromDays),
		"end_date":   dateFromNow(toDays),
	}
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)
	ownerToken := a.register("owner@example.com", "+919876500001", "111122223333", "AAAAB1111C", "owner")
	renterToken := a.register("renter@example.com", "+919876500002", "444455556666", "DDDDE2222F", "renter")
	listingID := a.createListing(ownerToken)

	rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(listingID, 7, 10))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view dto.BookingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1500.0, view.TotalAmount)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, "City Bike", view.ListingTitle)

	t.Run("overlap is rejected", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(listingID, 8, 12))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("lifecycle", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/bookings/%d/confirm", view.ID)
		rec := a.do(http.MethodPost, path, ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// no outgoing edge from confirmed back to confirmed
		rec = a.do(http.MethodPost, path, ownerToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("renter bookings", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/me/bookings", renterToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var collection dto.BookingCollection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
		require.Len(t, collection.Items, 1)
		assert.Equal(t, "confirmed", collection.Items[0].Status)
	})

	t.Run("renter stats", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/dashboard/stats", renterToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap dto.StatsSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		require.NotNil(t, snap.Renter)
		assert.Equal(t, 1500.0, snap.Renter.TotalSpent)
		assert.Equal(t, 4.5, snap.Renter.UserRating)
	})

	t.Run("owner stats", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/dashboard/stats", ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap dto.StatsSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		require.NotNil(t, snap.Owner)
		assert.Equal(t, 1, snap.Owner.ActiveListings)
		assert.Equal(t, 1500.0, snap.Owner.TotalEarnings)
		assert.Equal(t, 4.8, snap.Owner.UserRating)
	})
}

func TestBookingErrorStatuses(t *testing.T) {
	a := newAPI(t)
	ownerToken := a.register("owner@example.com", "+919876500001", "111122223333", "AAAAB1111C", "owner")
	renterToken := a.register("renter@example.com", "+919876500002", "444455556666", "DDDDE2222F", "renter")
	listingID := a.createListing(ownerToken)

	t.Run("auth required", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/bookings", "", bookingBody(listingID, 7, 10))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown listing", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(9999, 7, 10))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed dates", func(t *testing.T) {
		body := bookingBody(listingID, 7, 10)
		body["start_date"] = "07/01/2031"
		rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(listingID, 10, 7))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("start in past", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(listingID, -3, 2))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unavailable listing", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/listings/%d/availability", listingID)
		rec := a.do(http.MethodPatch, path, ownerToken, map[string]any{"available": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = a.do(http.MethodPost, "/api/v1/bookings", renterToken, bookingBody(listingID, 7, 10))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("renter cannot create listings", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/listings", renterToken, map[string]any{
			"category_id":   1,
			"title":         "Nope",
			"description":   "nope",
			"price_per_day": 100.0,
			"location":      "Pune",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCatalogAndCategoriesArePublic(t *testing.T) {
	a := newAPI(t)
	ownerToken := a.register("owner@example.com", "+919876500001", "111122223333", "AAAAB1111C", "owner")
	a.createListing(ownerToken)

	rec := a.do(http.MethodGet, "/api/v1/listings?search=bike", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog dto.ListingCatalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	require.Len(t, catalog.Listings, 1)
	assert.Equal(t, "Bikes", catalog.Listings[0].Category)

	rec = a.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories dto.CategoryCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories.Categories, 5)
}

func TestHealthEndpoints(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/livez", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "", nil).Code)
}
