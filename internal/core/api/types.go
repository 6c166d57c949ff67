package api

import "time"

// Store is a business location that sells food bags.
type Store struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	Distance    float64   `json:"distance,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoreSearch filters stores around a location. Radius is in kilometres.
type StoreSearch struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius,omitempty"`
	Category  string  `json:"category,omitempty"`
	Query     string  `json:"query,omitempty"`
}

// FoodBag is a discounted surplus-food bundle offered by a store.
type FoodBag struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice float64   `json:"discounted_price"`
	DiscountPercent float64   `json:"discount_percent"`
	QuantityLeft    int       `json:"quantity_left"`
	PickupStart     time.Time `json:"pickup_time_start"`
	PickupEnd       time.Time `json:"pickup_time_end"`
	ImageURL        string    `json:"image_url,omitempty"`
	Category        string    `json:"category"`
	Store           Store     `json:"store"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FoodBagSearch filters food bags around a location. Radius is in kilometres.
type FoodBagSearch struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius,omitempty"`
	Category  string  `json:"category,omitempty"`
	MaxPrice  float64 `json:"max_price,omitempty"`
	MinPrice  float64 `json:"min_price,omitempty"`
}

// SellerRequestStatus is the review state of a request to become a seller.
type SellerRequestStatus string

const (
	SellerRequestPending  SellerRequestStatus = "pending"
	SellerRequestApproved SellerRequestStatus = "approved"
	SellerRequestRejected SellerRequestStatus = "rejected"
)

// UserRef is the short user shape embedded in seller requests.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"user_type,omitempty"`
}

// SellerRequest is a consumer's application to sell on FoodVerse.
type SellerRequest struct {
	ID            int64               `json:"id"`
	User          UserRef             `json:"user"`
	IDNumber      string              `json:"id_number"`
	Reason        string              `json:"reason"`
	Location      string              `json:"location"`
	FaceImageURL  string              `json:"face_image_url"`
	Status        SellerRequestStatus `json:"status"`
	AdminComments string              `json:"admin_comments"`
	ReviewedBy    *UserRef            `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// SellerRequestQuery pages through seller requests (admin only).
type SellerRequestQuery struct {
	Status SellerRequestStatus
	Page   int
	Limit  int
}

// SellerRequestPage is one page of seller requests.
type SellerRequestPage struct {
	Requests []SellerRequest `json:"requests"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// OrderStatus is where an order is in its pickup lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a consumer's reservation of one or more bags from a food bag
// listing. PickupCode is shown at the store to collect it.
type Order struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	FoodBagID  int64       `json:"food_bag_id"`
	StoreID    int64       `json:"store_id"`
	Quantity   int         `json:"quantity"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	PickupCode string      `json:"pickup_code"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	PickedUpAt *time.Time  `json:"picked_up_at,omitempty"`
	FoodBag    *FoodBag    `json:"food_bag,omitempty"`
	Store      *Store      `json:"store,omitempty"`
}

// OrderInput places an order.
type OrderInput struct {
	FoodBagID int64  `json:"food_bag_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}
