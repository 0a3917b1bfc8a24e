package listings

import (
	"context"
	"errors"
	"log/slog"

	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/uow"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainuser "rentzy/internal/domain/user"
)

const searchCatalogKey = "listings.catalog"

type SearchCatalogQuery struct {
	CategoryID int64
	Search     string
	Page       int
	PerPage    int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

// Handle lists available listings with category and owner names
// resolved for the catalog view.
func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ListingCatalog, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainlistings.SearchParams{
		CategoryID: q.CategoryID,
		TitleQuery: q.Search,
		Page:       q.Page,
		PerPage:    q.PerPage,
	}.Normalized()
	result, err := unit.Listings().Search(execCtx, params)
	if err != nil {
		return dto.ListingCatalog{}, err
	}

	categoryNames := make(map[domaincategory.CategoryID]string)
	ownerNames := make(map[domainuser.ID]string)
	items := make([]dto.ListingView, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, dto.MapListing(l,
			h.categoryName(execCtx, unit, categoryNames, domaincategory.CategoryID(l.CategoryID)),
			h.ownerName(execCtx, unit, ownerNames, domainuser.ID(l.OwnerID)),
		))
	}

	pages := result.Total / params.PerPage
	if result.Total%params.PerPage != 0 {
		pages++
	}
	return dto.ListingCatalog{
		Listings: items,
		Pagination: dto.Pagination{
			Page:    params.Page,
			Pages:   pages,
			PerPage: params.PerPage,
			Total:   result.Total,
		},
	}, nil
}

func (h *SearchCatalogHandler) categoryName(ctx context.Context, unit uow.UnitOfWork, cache map[domaincategory.CategoryID]string, id domaincategory.CategoryID) string {
	if name, ok := cache[id]; ok {
		return name
	}
	cat, err := unit.Categories().ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domaincategory.ErrNotFound) && h.Logger != nil {
			h.Logger.Warn("category lookup failed", "category_id", id, "error", err)
		}
		cache[id] = ""
		return ""
	}
	cache[id] = cat.Name
	return cat.Name
}

func (h *SearchCatalogHandler) ownerName(ctx context.Context, unit uow.UnitOfWork, cache map[domainuser.ID]string, id domainuser.ID) string {
	if name, ok := cache[id]; ok {
		return name
	}
	owner, err := unit.Users().ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domainuser.ErrNotFound) && h.Logger != nil {
			h.Logger.Warn("owner lookup failed", "user_id", id, "error", err)
		}
		cache[id] = ""
		return ""
	}
	cache[id] = owner.Name
	return owner.Name
}

var _ queries.Handler[SearchCatalogQuery, dto.ListingCatalog] = (*SearchCatalogHandler)(nil)
