package listings

import (
	"context"
	"log/slog"
	"time"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/uow"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
)

const createListingKey = "listings.create"

type CreateListingCommand struct {
	OwnerID     int64
	CategoryID  int64
	Title       string
	Description string
	PricePerDay float64
	Location    string
}

func (c CreateListingCommand) Key() string { return createListingKey }

type CreateListingHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.ListingView, error) {
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

	cat, err := unit.Categories().ByID(execCtx, domaincategory.CategoryID(cmd.CategoryID))
	if err != nil {
		return nil, err
	}

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		OwnerID:     cmd.OwnerID,
		CategoryID:  cmd.CategoryID,
		Title:       cmd.Title,
		Description: cmd.Description,
		PricePerDay: cmd.PricePerDay,
		Location:    cmd.Location,
		Now:         time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(execCtx, listing); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("listing created", "listing_id", listing.ID, "owner_id", listing.OwnerID)
	}
	view := dto.MapListing(listing, cat.Name, "")
	return &view, nil
}

var _ commands.Handler[CreateListingCommand, *dto.ListingView] = (*CreateListingHandler)(nil)
