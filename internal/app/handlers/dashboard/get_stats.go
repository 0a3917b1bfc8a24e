package dashboard

import (
	"context"
	"log/slog"

	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/policies"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/uow"
	domainbooking "rentzy/internal/domain/booking"
	domainlistings "rentzy/internal/domain/listings"
	domainuser "rentzy/internal/domain/user"
)

const getStatsKey = "dashboard.stats"

// Placeholder ratings returned while there is no scoring engine.
const (
	renterPlaceholderRating = 4.5
	ownerPlaceholderRating  = 4.8
)

type GetStatsQuery struct {
	UserID int64
	Role   domainuser.Role
}

func (q GetStatsQuery) Key() string { return getStatsKey }

type GetStatsHandler struct {
	UoWFactory uow.Factory
	Cache      policies.StatsCache
	Logger     *slog.Logger
}

// Handle aggregates booking activity for the dashboard. The read runs
// inside a read-only unit of work, so it observes a committed snapshot
// and never counts partial writes.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (dto.StatsSnapshot, error) {
	if q.Role != domainuser.RoleRenter && q.Role != domainuser.RoleOwner {
		return dto.StatsSnapshot{}, domainuser.ErrInvalidRole
	}

	key := cacheKey(q)
	if h.Cache != nil {
		snap, hit, err := h.Cache.GetStats(ctx, key)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("stats cache read failed", "error", err)
		}
		if hit {
			return snap, nil
		}
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.StatsSnapshot{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	var snap dto.StatsSnapshot
	switch q.Role {
	case domainuser.RoleRenter:
		snap, err = renterStats(execCtx, unit, q.UserID)
	default:
		snap, err = ownerStats(execCtx, unit, q.UserID)
	}
	if err != nil {
		return dto.StatsSnapshot{}, err
	}

	if h.Cache != nil {
		if err := h.Cache.SetStats(ctx, key, snap); err != nil && h.Logger != nil {
			h.Logger.Warn("stats cache write failed", "error", err)
		}
	}
	return snap, nil
}

func renterStats(ctx context.Context, unit uow.UnitOfWork, renterID int64) (dto.StatsSnapshot, error) {
	bookings, err := unit.Bookings().ListByRenter(ctx, renterID)
	if err != nil {
		return dto.StatsSnapshot{}, err
	}
	stats := &dto.RenterStats{UserRating: renterPlaceholderRating}
	for _, bk := range bookings {
		switch bk.Status {
		case domainbooking.StatusActive:
			stats.ActiveBookings++
		case domainbooking.StatusPending:
			stats.PendingRequests++
		}
		// Spend accumulates across every status, cancellations included.
		stats.TotalSpent += bk.TotalAmount
	}
	return dto.StatsSnapshot{Renter: stats}, nil
}

func ownerStats(ctx context.Context, unit uow.UnitOfWork, ownerID int64) (dto.StatsSnapshot, error) {
	owned, err := unit.Listings().ListByOwner(ctx, ownerID)
	if err != nil {
		return dto.StatsSnapshot{}, err
	}
	stats := &dto.OwnerStats{UserRating: ownerPlaceholderRating}
	ids := make([]domainlistings.ListingID, 0, len(owned))
	for _, l := range owned {
		if l.Available {
			stats.ActiveListings++
		}
		ids = append(ids, l.ID)
	}
	bookings, err := unit.Bookings().ListByListings(ctx, ids)
	if err != nil {
		return dto.StatsSnapshot{}, err
	}
	stats.TotalBookings = len(bookings)
	for _, bk := range bookings {
		stats.TotalEarnings += bk.TotalAmount
	}
	return dto.StatsSnapshot{Owner: stats}, nil
}

func cacheKey(q GetStatsQuery) string {
	if q.Role == domainuser.RoleRenter {
		return policies.RenterStatsKey(q.UserID)
	}
	return policies.OwnerStatsKey(q.UserID)
}

var _ queries.Handler[GetStatsQuery, dto.StatsSnapshot] = (*GetStatsHandler)(nil)
