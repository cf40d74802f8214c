package domain

import "github.com/dwikikusuma/honey-storefront/pkg/money"

type Product struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Price          money.Price `json:"price"`
	CategoryID     int64       `json:"category_id,omitempty"`
	CategoryName   string      `json:"category_name,omitempty"`
	Images         []string    `json:"images,omitempty"`
	IsFeatured     bool        `json:"is_featured"`
	WarningStock   int         `json:"warning_stock,omitempty"`
	TotalStock     int         `json:"total_stock"`
	AvailableStock int         `json:"available_stock"`
	PrelockStock   int         `json:"prelock_stock"`
	CreatedAt      string      `json:"created_at,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`
}

// Stock is the quantity a shopper can still put in a cart.
func (p Product) Stock() int {
	if p.AvailableStock < 0 {
		return 0
	}
	return p.AvailableStock
}

type ListFilter struct {
	Category string
	Featured bool
	Limit    int
}
