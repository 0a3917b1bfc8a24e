package booking

import (
	"context"
	"log/slog"
	"time"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/outbox"
	"rentzy/internal/app/policies"
	"rentzy/internal/app/uow"
	domainbooking "rentzy/internal/domain/booking"
)

const (
	confirmBookingKey  = "booking.confirm"
	activateBookingKey = "booking.activate"
	completeBookingKey = "booking.complete"
	cancelBookingKey   = "booking.cancel"
)

type ConfirmBookingCommand struct{ BookingID int64 }

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ActivateBookingCommand struct{ BookingID int64 }

func (c ActivateBookingCommand) Key() string { return activateBookingKey }

type CompleteBookingCommand struct{ BookingID int64 }

func (c CompleteBookingCommand) Key() string { return completeBookingKey }

type CancelBookingCommand struct{ BookingID int64 }

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

// TransitionHandler applies lifecycle transitions. These are
// administrative actions: each one rejects when the booking has no
// outgoing edge to the target status.
type TransitionHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Cache      policies.StatsCache
	Logger     *slog.Logger
}

func (h *TransitionHandler) Confirm(ctx context.Context, cmd ConfirmBookingCommand) (*dto.BookingView, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Confirm)
}

func (h *TransitionHandler) Activate(ctx context.Context, cmd ActivateBookingCommand) (*dto.BookingView, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Activate)
}

func (h *TransitionHandler) Complete(ctx context.Context, cmd CompleteBookingCommand) (*dto.BookingView, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Complete)
}

func (h *TransitionHandler) Cancel(ctx context.Context, cmd CancelBookingCommand) (*dto.BookingView, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Cancel)
}

func (h *TransitionHandler) apply(ctx context.Context, id int64, transition func(*domainbooking.Booking, time.Time) error) (*dto.BookingView, error) {
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

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(id))
	if err != nil {
		return nil, err
	}
	if err := transition(bk, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(execCtx, bk); err != nil {
		return nil, err
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(execCtx, bk.ListingID)
	if err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	invalidateStats(ctx, h.Cache, h.Logger, bk.RenterID, listing.OwnerID)

	if h.Logger != nil {
		h.Logger.Info("booking transitioned", "booking_id", bk.ID, "status", bk.Status)
	}
	view := dto.MapBooking(bk, listing)
	return &view, nil
}

// confirmFunc adapters let one handler serve four command keys.
type confirmFunc struct{ h *TransitionHandler }

func (f confirmFunc) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*dto.BookingView, error) {
	return f.h.Confirm(ctx, cmd)
}

type activateFunc struct{ h *TransitionHandler }

func (f activateFunc) Handle(ctx context.Context, cmd ActivateBookingCommand) (*dto.BookingView, error) {
	return f.h.Activate(ctx, cmd)
}

type completeFunc struct{ h *TransitionHandler }

func (f completeFunc) Handle(ctx context.Context, cmd CompleteBookingCommand) (*dto.BookingView, error) {
	return f.h.Complete(ctx, cmd)
}

type cancelFunc struct{ h *TransitionHandler }

func (f cancelFunc) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.BookingView, error) {
	return f.h.Cancel(ctx, cmd)
}

// RegisterTransitions wires the four lifecycle commands onto the bus.
func RegisterTransitions(bus *commands.InMemoryBus, h *TransitionHandler) {
	commands.Register[ConfirmBookingCommand, *dto.BookingView](bus, confirmBookingKey, confirmFunc{h})
	commands.Register[ActivateBookingCommand, *dto.BookingView](bus, activateBookingKey, activateFunc{h})
	commands.Register[CompleteBookingCommand, *dto.BookingView](bus, completeBookingKey, completeFunc{h})
	commands.Register[CancelBookingCommand, *dto.BookingView](bus, cancelBookingKey, cancelFunc{h})
}
