package category

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("category: not found")
	ErrNameRequired = errors.New("category: name is required")
)

type CategoryID int64

type Category struct {
	ID          CategoryID
	Name        string
	Icon        string
	Description string
}

type Repository interface {
	ByID(ctx context.Context, id CategoryID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Save(ctx context.Context, cat *Category) error
}

func New(name, icon, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Category{Name: name, Icon: icon, Description: description}, nil
}

// Defaults returns the catalog seeded on an empty store.
func Defaults() []*Category {
	return []*Category{
		{Name: "Bikes", Icon: "fas fa-motorcycle", Description: "Two-wheelers for your daily commute"},
		{Name: "Cars", Icon: "fas fa-car", Description: "Luxury cars to budget-friendly options"},
		{Name: "Homes", Icon: "fas fa-home", Description: "Comfortable stays for any duration"},
		{Name: "Villas", Icon: "fas fa-building", Description: "Luxury getaways and vacation rentals"},
		{Name: "Gadgets", Icon: "fas fa-laptop", Description: "Latest tech for your projects"},
	}
}
