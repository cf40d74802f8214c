package mockapi

import (
	catalog "github.com/dwikikusuma/honey-storefront/internal/catalog/domain"
	session "github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/dwikikusuma/honey-storefront/pkg/money"
)

// Seed loads a small demo catalogue plus two accounts:
// admin/admin123 and alice/secret123 (phone 13800000001).
func (s *Server) Seed() {
	products := []catalog.Product{
		{ID: 1, Name: "Acacia Honey 250g", Price: money.Price(1990), CategoryID: 1, CategoryName: "honey", IsFeatured: true, TotalStock: 50, AvailableStock: 42, Images: []string{"/img/acacia-250.jpg"}},
		{ID: 2, Name: "Wildflower Honey 500g", Price: money.Price(3290), CategoryID: 1, CategoryName: "honey", TotalStock: 30, AvailableStock: 30, Images: []string{"/img/wildflower-500.jpg"}},
		{ID: 7, Name: "Honey 500g", Price: money.Price(3990), CategoryID: 1, CategoryName: "honey", IsFeatured: true, TotalStock: 5, AvailableStock: 5},
		{ID: 9, Name: "Royal Jelly 100g", Price: money.Price(8800), CategoryID: 2, CategoryName: "bee-products", TotalStock: 10, AvailableStock: 2, WarningStock: 3, Images: []string{"/img/royal-jelly.jpg"}},
		{ID: 12, Name: "Beeswax Candle", Price: money.Price(1250), CategoryID: 3, CategoryName: "gifts", TotalStock: 0, AvailableStock: 0},
	}
	for _, p := range products {
		s.SeedProduct(p)
	}

	s.SeedUser(session.User{Username: "admin", Email: "admin@example.com", Role: "admin", IsAdmin: true}, "admin123")

	alice := s.SeedUser(session.User{
		Username:    "alice",
		Email:       "alice@example.com",
		Phone:       "13800000001",
		Nickname:    "Alice",
		Role:        "user",
		Points:      120,
		MemberLevel: "silver",
	}, "secret123")
	s.SeedPoints(alice.ID,
		session.PointsRecord{ID: 1, Points: 100, Balance: 100, Description: "welcome bonus", SourceType: "register"},
		session.PointsRecord{ID: 2, Points: 20, Balance: 120, Description: "order reward", SourceType: "order", SourceID: 1001},
	)
	s.SeedCoupons(alice.ID,
		session.Coupon{ID: 1, Code: "WELCOME10", Name: "Welcome 10 off", Type: "fixed", DiscountValue: 10, MinPurchase: money.Price(5000)},
	)
	s.SeedAddresses(alice.ID,
		session.Address{ID: 1, RecipientName: "Alice", PhoneNumber: "13800000001", Province: "Zhejiang", City: "Hangzhou", District: "Xihu", DetailedAddress: "1 Lakeside Rd", IsDefault: true},
	)
}
