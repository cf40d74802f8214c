package domain

import "github.com/dwikikusuma/honey-storefront/pkg/money"

// Page is one slice of a paginated account collection.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

type PointsRecord struct {
	ID          int64  `json:"id"`
	Points      int64  `json:"points"`
	Balance     int64  `json:"balance"`
	Description string `json:"description,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
	SourceID    int64  `json:"source_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Coupon struct {
	ID            int64       `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	DiscountValue float64     `json:"discount_value"`
	MinPurchase   money.Price `json:"min_purchase"`
	StartDate     string      `json:"start_date,omitempty"`
	EndDate       string      `json:"end_date,omitempty"`
	IsUsed        bool        `json:"is_used"`
	UsedAt        string      `json:"used_at,omitempty"`
	AcquiredAt    string      `json:"acquired_at,omitempty"`
}

type Address struct {
	ID              int64  `json:"id"`
	RecipientName   string `json:"recipient_name"`
	PhoneNumber     string `json:"phone_number"`
	Province        string `json:"province"`
	City            string `json:"city"`
	District        string `json:"district"`
	DetailedAddress string `json:"detailed_address"`
	IsDefault       bool   `json:"is_default"`
}
