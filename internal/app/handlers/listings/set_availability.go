package listings

import (
	"context"
	"errors"
	"log/slog"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/policies"
	"rentzy/internal/app/uow"
	domainlistings "rentzy/internal/domain/listings"
)

const setAvailabilityKey = "listings.availability.set"

var ErrNotListingOwner = errors.New("listings: only the owner may change availability")

type SetAvailabilityCommand struct {
	ListingID int64
	OwnerID   int64
	Available bool
}

func (c SetAvailabilityCommand) Key() string { return setAvailabilityKey }

type SetAvailabilityHandler struct {
	UoWFactory uow.Factory
	Cache      policies.StatsCache
	Logger     *slog.Logger
}

// Handle toggles whether a listing accepts new bookings. Existing
// bookings are untouched.
func (h *SetAvailabilityHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (*dto.ListingView, error) {
	unit, execCtx, managed, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(execCtx)
			}
		}()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != cmd.OwnerID {
		return nil, ErrNotListingOwner
	}
	listing.SetAvailability(cmd.Available)
	if err := unit.Listings().Save(execCtx, listing); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, policies.OwnerStatsKey(listing.OwnerID)); err != nil && h.Logger != nil {
			h.Logger.Warn("stats cache invalidation failed", "error", err)
		}
	}
	if h.Logger != nil {
		h.Logger.Info("listing availability changed", "listing_id", listing.ID, "available", listing.Available)
	}
	view := dto.MapListing(listing, "", "")
	return &view, nil
}

var _ commands.Handler[SetAvailabilityCommand, *dto.ListingView] = (*SetAvailabilityHandler)(nil)
