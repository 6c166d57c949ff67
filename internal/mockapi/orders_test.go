package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodverse/foodverse/internal/core/api"
)

func decodeOrders(t *testing.T, body []byte) []api.Order {
	t.Helper()
	var orders []api.Order
	require.NoError(t, json.Unmarshal(body, &orders))
	return orders
}

func bagByTitle(t *testing.T, s *Server, title string) api.FoodBag {
	t.Helper()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bags {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("food bag %q not seeded", title)
	return api.FoodBag{}
}

func TestServer_CreateOrder(t *testing.T) {
	s := newSeeded(t)
	token := tokenFor(t, s, SeedConsumerEmail)
	bread := bagByTitle(t, s, "Fresh Bread Bundle")

	rec := serve(t, s, http.MethodPost, "/orders", token, orderInput{FoodBagID: bread.ID, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, api.OrderPending, o.Status)
	assert.Equal(t, bread.Store.ID, o.StoreID)
	assert.InDelta(t, 12, o.TotalPrice, 0.001)
	assert.Regexp(t, `^[0-9A-F]{6}$`, o.PickupCode)
	require.NotNil(t, o.FoodBag)
	assert.Equal(t, "Fresh Bread Bundle", o.FoodBag.Title)

	assert.Equal(t, 1, bagByTitle(t, s, "Fresh Bread Bundle").QuantityLeft)
}

func TestServer_CreateOrder_errors(t *testing.T) {
	tests := []struct {
		name   string
		input  orderInput
		status int
		msg    string
	}{
		{name: "unknown food bag", input: orderInput{FoodBagID: 999, Quantity: 1}, status: http.StatusNotFound, msg: ErrUnknownFoodBag.Error()},
		{name: "more than left", input: orderInput{Quantity: 10}, status: http.StatusBadRequest, msg: ErrSoldOut.Error()},
		{name: "zero quantity", input: orderInput{Quantity: 0}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeeded(t)
			token := tokenFor(t, s, SeedConsumerEmail)
			if tt.input.FoodBagID == 0 {
				tt.input.FoodBagID = bagByTitle(t, s, "Fresh Bread Bundle").ID
			}

			rec := serve(t, s, http.MethodPost, "/orders", token, tt.input)
			assert.Equal(t, tt.status, rec.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorBody(t, rec))
			}
			assert.Equal(t, 3, bagByTitle(t, s, "Fresh Bread Bundle").QuantityLeft)
		})
	}
}

func TestServer_MyOrders(t *testing.T) {
	s := newSeeded(t)
	consumer := tokenFor(t, s, SeedConsumerEmail)

	rec := serve(t, s, http.MethodGet, "/orders/my", consumer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeOrders(t, rec.Body.Bytes())
	require.Len(t, orders, 1)
	assert.Equal(t, "Mixed Vegetable Bag", orders[0].FoodBag.Title)

	bread := bagByTitle(t, s, "Fresh Bread Bundle")
	serve(t, s, http.MethodPost, "/orders", consumer, orderInput{FoodBagID: bread.ID, Quantity: 1})

	rec = serve(t, s, http.MethodGet, "/orders/my", consumer, nil)
	orders = decodeOrders(t, rec.Body.Bytes())
	require.Len(t, orders, 2)
	assert.Equal(t, "Fresh Bread Bundle", orders[0].FoodBag.Title, "newest first")

	rec = serve(t, s, http.MethodGet, "/orders/my", tokenFor(t, s, SeedAdminEmail), nil)
	assert.Empty(t, decodeOrders(t, rec.Body.Bytes()))
}

func TestServer_StoreOrders(t *testing.T) {
	s := newSeeded(t)
	veg := bagByTitle(t, s, "Mixed Vegetable Bag")
	path := "/store/" + strconv.FormatInt(veg.Store.ID, 10) + "/orders"

	rec := serve(t, s, http.MethodGet, path, tokenFor(t, s, SeedBusinessEmail), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeOrders(t, rec.Body.Bytes())
	require.Len(t, orders, 1)
	assert.Equal(t, "Please keep it cold", orders[0].Notes)

	rec = serve(t, s, http.MethodGet, path, tokenFor(t, s, SeedConsumerEmail), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, errNotStoreOwner.Error(), errorBody(t, rec))

	rec = serve(t, s, http.MethodGet, "/store/999/orders", tokenFor(t, s, SeedBusinessEmail), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_VerifyPickup(t *testing.T) {
	s := newSeeded(t)
	business := tokenFor(t, s, SeedBusinessEmail)

	s.mu.RLock()
	code := s.orders[0].PickupCode
	s.mu.RUnlock()

	rec := serve(t, s, http.MethodPost, "/orders/verify-pickup", tokenFor(t, s, SeedConsumerEmail), pickupInput{PickupCode: code})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, s, http.MethodPost, "/orders/verify-pickup", business, pickupInput{PickupCode: "zzzzzz"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrInvalidPickupCode.Error(), errorBody(t, rec))

	rec = serve(t, s, http.MethodPost, "/orders/verify-pickup", business, pickupInput{PickupCode: " " + code + " "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var o api.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, api.OrderCompleted, o.Status)
	require.NotNil(t, o.PickedUpAt)

	rec = serve(t, s, http.MethodPost, "/orders/verify-pickup", business, pickupInput{PickupCode: code})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
