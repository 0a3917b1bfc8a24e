package booking

import (
	"context"
	"log/slog"
	"time"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	"rentzy/internal/app/middleware"
	"rentzy/internal/app/outbox"
	"rentzy/internal/app/policies"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/uow"
	domainbooking "rentzy/internal/domain/booking"
	domainlistings "rentzy/internal/domain/listings"
	domainrange "rentzy/internal/domain/shared/daterange"
	domainuser "rentzy/internal/domain/user"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	RenterID        int64
	ListingID       int64
	StartDate       string
	EndDate         string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.BookingView{} }

type CreateBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Cache      policies.StatsCache
	Logger     *slog.Logger
}

// Handle validates the reservation request and persists a pending
// booking. Checks run in a fixed order so each failure is reported
// distinctly; nothing is written until all of them pass.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.BookingView, error) {
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
	if !listing.Available {
		return nil, domainlistings.ErrUnavailable
	}

	dr, err := domainrange.Parse(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	if _, err := unit.Users().ByID(execCtx, domainuser.ID(cmd.RenterID)); err != nil {
		return nil, err
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: cmd.RenterID,
		Listing:  listing,
		Range:    dr,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}

	taken, err := unit.Bookings().AnyOverlapping(execCtx, listing.ID, dr)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domainbooking.ErrDatesConflict
	}

	if err := unit.Bookings().Save(execCtx, bk); err != nil {
		return nil, err
	}

	bk.Record(domainbooking.BookingRequested{
		BookingID:   bk.ID,
		ListingID:   bk.ListingID,
		RenterID:    bk.RenterID,
		Range:       bk.Range,
		TotalAmount: bk.TotalAmount,
		At:          now,
	})
	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	invalidateStats(ctx, h.Cache, h.Logger, cmd.RenterID, listing.OwnerID)

	if h.Logger != nil {
		h.Logger.Info("booking requested",
			"booking_id", bk.ID, "listing_id", bk.ListingID,
			"renter_id", bk.RenterID, "total_amount", bk.TotalAmount)
	}
	view := dto.MapBooking(bk, listing)
	return &view, nil
}

func invalidateStats(ctx context.Context, cache policies.StatsCache, logger *slog.Logger, rID, oID int64) {
	if cache == nil {
		return
	}
	err := cache.Invalidate(ctx, policies.RenterStatsKey(rID), policies.OwnerStatsKey(oID))
	if err != nil && logger != nil {
		logger.Warn("stats cache invalidation failed", "error", err)
	}
}

var _ commands.Handler[CreateBookingCommand, *dto.BookingView] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
