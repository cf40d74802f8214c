package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/pkg/money"
)

// ErrCorruptCart reports a persisted cart that is not a JSON array of line items.
var ErrCorruptCart = errors.New("cart: persisted value is not a line item list")

// Product is what a shopper adds: the catalogue record as the UI saw it.
type Product struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Price  money.Price `json:"price"`
	Stock  int         `json:"stock"`
	Images []string    `json:"images,omitempty"`
}

type LineItem struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	UnitPrice money.Price `json:"price"`
	Quantity  int         `json:"quantity"`
	// Stock is the inventory ceiling captured when the item was added.
	Stock int    `json:"stock"`
	Image string `json:"image"`
}

func (li LineItem) Subtotal() money.Price {
	return li.UnitPrice.Times(li.Quantity)
}

// Cart is an ordered list of line items, unique by product id.
type Cart struct {
	Items []LineItem
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	out := Cart{Items: make([]LineItem, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

func (c Cart) Find(productID int64) (LineItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Total() money.Price {
	var sum money.Price
	for _, it := range c.Items {
		sum += it.Subtotal()
	}
	return sum
}

func (c Cart) TotalAmount() float64 {
	return c.Total().Float()
}

// TotalPrice is the total with exactly two decimals, e.g. "159.60".
func (c Cart) TotalPrice() string {
	return c.Total().String()
}

// Add puts qty units of p in the cart, merging with an existing line.
// placeholder is used when p carries no picture.
func (c *Cart) Add(p *Product, qty int, placeholder string) error {
	const op = "cart.AddItem"
	if p == nil || p.ID <= 0 {
		return apperr.Validation(op, "product is missing an id")
	}
	if qty <= 0 {
		return apperr.Validation(op, "quantity must be positive, got %d", qty)
	}
	if p.Price < 0 {
		return apperr.Validation(op, "%s has a negative price", displayName(p))
	}
	if p.Stock <= 0 {
		return apperr.Validation(op, "%s is out of stock", displayName(p))
	}

	if i := c.index(p.ID); i >= 0 {
		next := c.Items[i].Quantity + qty
		if next > p.Stock {
			return apperr.Stock(op, "only %d of %s available, %d already in cart", p.Stock, displayName(p), c.Items[i].Quantity)
		}
		c.Items[i].Quantity = next
		c.Items[i].Stock = p.Stock
		return nil
	}

	if qty > p.Stock {
		return apperr.Stock(op, "only %d of %s available", p.Stock, displayName(p))
	}

	image := placeholder
	for _, img := range p.Images {
		if strings.TrimSpace(img) != "" {
			image = img
			break
		}
	}
	c.Items = append(c.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		Stock:     p.Stock,
		Image:     image,
	})
	return nil
}

// Remove drops the line for productID and reports whether there was one.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) SetQuantity(productID int64, qty int) error {
	const op = "cart.UpdateQuantity"
	i := c.index(productID)
	if i < 0 {
		return apperr.NotFound(op, "product %d is not in the cart", productID)
	}
	if qty <= 0 {
		return apperr.Validation(op, "quantity must be positive, got %d", qty)
	}
	if qty > c.Items[i].Stock {
		return apperr.Stock(op, "only %d of %s available", c.Items[i].Stock, c.Items[i].Name)
	}
	c.Items[i].Quantity = qty
	return nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) index(productID int64) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func displayName(p *Product) string {
	if p.Name != "" {
		return p.Name
	}
	return "this product"
}

// Encode serialises the line items as a JSON array; an empty cart is "[]".
func Encode(c Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a persisted cart. Anything but a JSON array of objects yields
// ErrCorruptCart. Lines without a product id, a positive quantity or a
// non-negative price are dropped. A line saved without a stock ceiling takes
// its quantity as the ceiling; a line over its saved ceiling is lowered to it.
func Decode(raw []byte) (Cart, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return Cart{}, ErrCorruptCart
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return Cart{}, errors.Join(ErrCorruptCart, err)
	}

	c := Cart{Items: make([]LineItem, 0, len(items))}
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 || it.UnitPrice < 0 || c.index(it.ProductID) >= 0 {
			continue
		}
		switch {
		case it.Stock <= 0:
			it.Stock = it.Quantity
		case it.Quantity > it.Stock:
			it.Quantity = it.Stock
		}
		c.Items = append(c.Items, it)
	}
	return c, nil
}
