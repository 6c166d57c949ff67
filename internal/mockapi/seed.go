package mockapi

import (
	"fmt"
	"time"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// Seed accounts, one per role.
const (
	SeedConsumerEmail = "consumer@foodverse.test"
	SeedBusinessEmail = "business@foodverse.test"
	SeedAdminEmail    = "admin@foodverse.test"
)

// SeedLocation is the centre of the seeded stores (Jakarta).
var SeedLocation = struct{ Latitude, Longitude float64 }{-6.2088, 106.8456}

// Seed fills the server with demo accounts, two stores with food bags, one
// pending order of the consumer and a pending seller request.
func (s *Server) Seed() error {
	consumer, err := s.AddUser("Rina Consumer", SeedConsumerEmail, SeedPassword, auth.RoleConsumer)
	if err != nil {
		return fmt.Errorf("seed consumer: %w", err)
	}
	business, err := s.AddUser("Green Grocery Owner", SeedBusinessEmail, SeedPassword, auth.RoleBusiness)
	if err != nil {
		return fmt.Errorf("seed business: %w", err)
	}
	if _, err := s.AddUser("FoodVerse Admin", SeedAdminEmail, SeedPassword, auth.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	grocery := s.AddStore(business.ID, api.Store{
		Name:        "Green Grocery Store",
		Description: "Fresh organic produce and healthy food options",
		Address:     "123 Main Street, Jakarta",
		Latitude:    -6.2088,
		Longitude:   106.8456,
		Phone:       "+62-21-1234567",
		Email:       "contact@greengrocery.com",
		Category:    "grocery",
		Rating:      4.6,
	})
	bakery := s.AddStore(business.ID, api.Store{
		Name:        "Sunrise Bakery",
		Description: "Fresh bread, pastries, and baked goods daily",
		Address:     "456 Baker Street, Jakarta",
		Latitude:    -6.2100,
		Longitude:   106.8470,
		Phone:       "+62-21-2345678",
		Email:       "hello@sunrisebakery.com",
		Category:    "bakery",
		Rating:      4.8,
	})

	pickup := s.now().Truncate(time.Hour).Add(6 * time.Hour)
	bags := []struct {
		store int64
		bag   api.FoodBag
	}{
		{grocery.ID, api.FoodBag{
			Title:           "Mixed Vegetable Bag",
			Description:     "Assorted fresh vegetables nearing expiry date",
			OriginalPrice:   25,
			DiscountedPrice: 10,
			QuantityLeft:    5,
			Category:        "vegetables",
		}},
		{bakery.ID, api.FoodBag{
			Title:           "Fresh Bread Bundle",
			Description:     "Day-old bread and pastries",
			OriginalPrice:   18,
			DiscountedPrice: 6,
			QuantityLeft:    3,
			Category:        "bakery",
		}},
	}
	var first api.FoodBag
	for i, b := range bags {
		b.bag.PickupStart = pickup
		b.bag.PickupEnd = pickup.Add(3 * time.Hour)
		added, err := s.AddFoodBag(b.store, b.bag)
		if err != nil {
			return fmt.Errorf("seed food bag %q: %w", b.bag.Title, err)
		}
		if i == 0 {
			first = added
		}
	}

	if _, err := s.AddOrder(consumer.ID, first.ID, 1, "Please keep it cold"); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	if _, err := s.AddSellerRequest(consumer.ID, api.SellerRequest{
		IDNumber: "3171234567890001",
		Reason:   "I run a small catering kitchen with daily surplus",
		Location: "Jakarta Selatan",
	}); err != nil {
		return fmt.Errorf("seed seller request: %w", err)
	}

	return nil
}
