package listings

import (
	"context"

	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/uow"
)

const listCategoriesKey = "categories.list"

type ListCategoriesQuery struct{}

func (q ListCategoriesQuery) Key() string { return listCategoriesKey }

type ListCategoriesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListCategoriesHandler) Handle(ctx context.Context, q ListCategoriesQuery) (dto.CategoryCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CategoryCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	cats, err := unit.Categories().List(execCtx)
	if err != nil {
		return dto.CategoryCollection{}, err
	}
	items := make([]dto.CategoryView, 0, len(cats))
	for _, c := range cats {
		items = append(items, dto.MapCategory(c))
	}
	return dto.CategoryCollection{Categories: items}, nil
}

var _ queries.Handler[ListCategoriesQuery, dto.CategoryCollection] = (*ListCategoriesHandler)(nil)
