package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodverse/foodverse/internal/core/api"
)

var (
	ErrUnknownFoodBag    = errors.New("food bag not found")
	ErrSoldOut           = errors.New("not enough quantity available")
	ErrInvalidPickupCode = errors.New("invalid pickup code")
	errAlreadyPickedUp   = errors.New("order already picked up")
	errNotStoreOwner     = errors.New("you do not own this store")
)

type orderInput struct {
	FoodBagID int64  `json:"food_bag_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

type pickupInput struct {
	PickupCode string `json:"pickup_code" binding:"required"`
}

// newPickupCode returns six upper-case hex digits.
func newPickupCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate pickup code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// AddOrder reserves quantity bags of foodBagID for userID, decrementing the
// bags left.
func (s *Server) AddOrder(userID, foodBagID int64, quantity int, notes string) (api.Order, error) {
	code, err := newPickupCode()
	if err != nil {
		return api.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.bags, func(b api.FoodBag) bool { return b.ID == foodBagID })
	if idx < 0 {
		return api.Order{}, ErrUnknownFoodBag
	}
	bag := &s.bags[idx]
	if bag.QuantityLeft < quantity {
		return api.Order{}, ErrSoldOut
	}
	bag.QuantityLeft -= quantity

	now := s.now()
	snapshot := *bag
	store := bag.Store
	o := api.Order{
		ID:         s.nextIDLocked(),
		UserID:     userID,
		FoodBagID:  bag.ID,
		StoreID:    bag.Store.ID,
		Quantity:   quantity,
		TotalPrice: bag.DiscountedPrice * float64(quantity),
		Status:     api.OrderPending,
		PickupCode: code,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		FoodBag:    &snapshot,
		Store:      &store,
	}
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var in orderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	o, err := s.AddOrder(currentUserID(c), in.FoodBagID, in.Quantity, in.Notes)
	switch {
	case errors.Is(err, ErrUnknownFoodBag):
		errorJSON(c, http.StatusNotFound, err)
	case errors.Is(err, ErrSoldOut):
		errorJSON(c, http.StatusBadRequest, err)
	case err != nil:
		errorJSON(c, http.StatusInternalServerError, err)
	default:
		c.JSON(http.StatusCreated, o)
	}
}

// newestFirst returns the orders matching keep, most recent first.
func (s *Server) newestFirst(keep func(api.Order) bool) []api.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Order, 0)
	for i := len(s.orders) - 1; i >= 0; i-- {
		if keep(s.orders[i]) {
			out = append(out, s.orders[i])
		}
	}
	return out
}

func (s *Server) handleMyOrders(c *gin.Context) {
	uid := currentUserID(c)
	c.JSON(http.StatusOK, s.newestFirst(func(o api.Order) bool { return o.UserID == uid }))
}

func (s *Server) handleStoreOrders(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, errors.New("invalid store id"))
		return
	}

	s.mu.RLock()
	_, found := s.storeLocked(id)
	owner := s.storeOwners[id]
	s.mu.RUnlock()

	switch {
	case !found:
		errorJSON(c, http.StatusNotFound, ErrUnknownStore)
		return
	case owner != currentUserID(c):
		errorJSON(c, http.StatusForbidden, errNotStoreOwner)
		return
	}

	c.JSON(http.StatusOK, s.newestFirst(func(o api.Order) bool { return o.StoreID == id }))
}

func (s *Server) handleVerifyPickup(c *gin.Context) {
	var in pickupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(in.PickupCode))
	uid := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.orders, func(o api.Order) bool { return o.PickupCode == code })
	if idx < 0 {
		errorJSON(c, http.StatusNotFound, ErrInvalidPickupCode)
		return
	}
	o := &s.orders[idx]
	if s.storeOwners[o.StoreID] != uid {
		errorJSON(c, http.StatusForbidden, errNotStoreOwner)
		return
	}
	if o.Status == api.OrderCompleted || o.Status == api.OrderCancelled {
		errorJSON(c, http.StatusConflict, errAlreadyPickedUp)
		return
	}

	now := s.now()
	o.Status = api.OrderCompleted
	o.PickedUpAt = &now
	o.UpdatedAt = now
	c.JSON(http.StatusOK, *o)
}
