package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foodverse/foodverse/internal/core/auth"
)

var _ auth.API = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var sess auth.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		body:   loginRequest{Email: email, Password: password},
	}, &sess)
	if err != nil {
		return auth.Session{}, err
	}
	return sess, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, r auth.Registration) (auth.Session, error) {
	var sess auth.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/register",
		body:   r,
	}, &sess)
	if err != nil {
		return auth.Session{}, err
	}
	return sess, nil
}

// Profile fetches the user the given token belongs to.
func (c *Client) Profile(ctx context.Context, token string) (auth.User, error) {
	var user auth.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user",
		token:  token,
	}, &user)
	if err != nil {
		return auth.User{}, err
	}
	return user, nil
}

// OwnedStores lists the stores of the logged in business user.
func (c *Client) OwnedStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	if err := c.get(ctx, "/stores/my", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// SearchStores finds stores around a location.
func (c *Client) SearchStores(ctx context.Context, q StoreSearch) ([]Store, error) {
	var stores []Store
	if err := c.post(ctx, "/stores/search", q, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// SearchFoodBags finds food bags around a location.
func (c *Client) SearchFoodBags(ctx context.Context, q FoodBagSearch) ([]FoodBag, error) {
	var bags []FoodBag
	if err := c.post(ctx, "/food-bags/search", q, &bags); err != nil {
		return nil, err
	}
	return bags, nil
}

// FoodBagsByStore lists the food bags offered by one store.
func (c *Client) FoodBagsByStore(ctx context.Context, storeID int64) ([]FoodBag, error) {
	var bags []FoodBag
	if err := c.get(ctx, fmt.Sprintf("/store-food-bags/%d", storeID), nil, &bags); err != nil {
		return nil, err
	}
	return bags, nil
}

// MySellerRequest returns the logged in user's seller application.
func (c *Client) MySellerRequest(ctx context.Context) (SellerRequest, error) {
	var req SellerRequest
	if err := c.get(ctx, "/seller-requests/my", nil, &req); err != nil {
		return SellerRequest{}, err
	}
	return req, nil
}

// SellerRequests pages through all seller applications (admin only).
func (c *Client) SellerRequests(ctx context.Context, q SellerRequestQuery) (SellerRequestPage, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page SellerRequestPage
	if err := c.get(ctx, "/seller-requests", query, &page); err != nil {
		return SellerRequestPage{}, err
	}
	return page, nil
}

// CreateOrder reserves bags from a food bag listing.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	var order Order
	if err := c.post(ctx, "/orders", in, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// MyOrders lists the logged in consumer's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders/my", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// StoreOrders lists the orders placed at one of the caller's stores.
func (c *Client) StoreOrders(ctx context.Context, storeID int64) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, fmt.Sprintf("/store/%d/orders", storeID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type pickupRequest struct {
	PickupCode string `json:"pickup_code"`
}

// VerifyPickup completes the order the code belongs to.
func (c *Client) VerifyPickup(ctx context.Context, code string) (Order, error) {
	var order Order
	if err := c.post(ctx, "/orders/verify-pickup", pickupRequest{PickupCode: code}, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}
