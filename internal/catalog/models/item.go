package models

import (
	"strings"

	dErrors "storefront/pkg/domain-errors"
)

// Item is a product or project shown in the catalog. Products carry a price;
// projects leave it nil.
type Item struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Image       string   `json:"image"`
	Highlights  []string `json:"highlights"`
	IsFeatured  bool     `json:"isFeatured"`
}

// Validate enforces the required fields of a catalog item.
func (i *Item) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"id", i.ID},
		{"category", i.Category},
		{"title", i.Title},
		{"description", i.Description},
		{"image", i.Image},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "catalog item missing "+strings.Join(missing, ", "))
	}
	if i.Price != nil && *i.Price < 0 {
		return dErrors.New(dErrors.CodeValidation, "catalog item price must not be negative")
	}
	return nil
}

// Clone returns a deep copy so stores never share slices with callers.
func (i *Item) Clone() *Item {
	c := *i
	if i.Price != nil {
		p := *i.Price
		c.Price = &p
	}
	if i.Highlights != nil {
		c.Highlights = append([]string(nil), i.Highlights...)
	}
	return &c
}

// Price returns a pointer for literal prices.
func Price(v float64) *float64 {
	return &v
}
