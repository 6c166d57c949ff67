package mockapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
)

const defaultSearchRadiusKM = 10

type registerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	UserType string `json:"user_type"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) respondWithSession(c *gin.Context, status int, u auth.User) {
	token, expiresAt, err := s.IssueToken(u)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(status, auth.Session{Token: token, ExpiresAt: expiresAt, User: u})
}

func (s *Server) handleRegister(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	role := auth.Role(in.UserType)
	switch role {
	case "":
		role = auth.RoleConsumer
	case auth.RoleConsumer, auth.RoleBusiness:
	default:
		errorJSON(c, http.StatusBadRequest, errInvalidUserType)
		return
	}

	u, err := s.AddUser(in.Name, in.Email, in.Password, role)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	acc := s.accounts[u.ID]
	acc.user.Phone = in.Phone
	acc.user.Address = in.Address
	u = acc.user
	s.mu.Unlock()

	s.respondWithSession(c, http.StatusCreated, u)
}

func (s *Server) handleLogin(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	u, err := s.authenticate(in.Email, in.Password)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	s.respondWithSession(c, http.StatusOK, u)
}

func (s *Server) handleProfile(c *gin.Context) {
	u, ok := s.user(currentUserID(c))
	if !ok {
		errorJSON(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleOwnedStores(c *gin.Context) {
	uid := currentUserID(c)
	u, _ := s.user(uid)
	if !u.Role.SellsFood() {
		errorJSON(c, http.StatusForbidden, errors.New("only business accounts own stores"))
		return
	}

	s.mu.RLock()
	out := make([]api.Store, 0)
	for _, st := range s.stores {
		if s.storeOwners[st.ID] == uid {
			out = append(out, st)
		}
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSearchStores(c *gin.Context) {
	var q api.StoreSearch
	if err := c.ShouldBindJSON(&q); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	radius := q.Radius
	if radius <= 0 {
		radius = defaultSearchRadiusKM
	}

	s.mu.RLock()
	out := make([]api.Store, 0)
	for _, st := range s.stores {
		if q.Category != "" && st.Category != q.Category {
			continue
		}
		d := distanceKM(q.Latitude, q.Longitude, st.Latitude, st.Longitude)
		if d > radius {
			continue
		}
		st.Distance = d
		out = append(out, st)
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSearchFoodBags(c *gin.Context) {
	var q api.FoodBagSearch
	if err := c.ShouldBindJSON(&q); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	radius := q.Radius
	if radius <= 0 {
		radius = defaultSearchRadiusKM
	}

	s.mu.RLock()
	out := make([]api.FoodBag, 0)
	for _, b := range s.bags {
		switch {
		case b.QuantityLeft <= 0:
			continue
		case q.Category != "" && b.Category != q.Category:
			continue
		case q.MaxPrice > 0 && b.DiscountedPrice > q.MaxPrice:
			continue
		case q.MinPrice > 0 && b.DiscountedPrice < q.MinPrice:
			continue
		}
		d := distanceKM(q.Latitude, q.Longitude, b.Store.Latitude, b.Store.Longitude)
		if d > radius {
			continue
		}
		b.Store.Distance = d
		out = append(out, b)
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleStoreFoodBags(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, errors.New("invalid store id"))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.storeLocked(id); !ok {
		errorJSON(c, http.StatusNotFound, ErrUnknownStore)
		return
	}

	out := make([]api.FoodBag, 0)
	for _, b := range s.bags {
		if b.Store.ID == id {
			out = append(out, b)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMySellerRequest(c *gin.Context) {
	uid := currentUserID(c)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].User.ID == uid {
			c.JSON(http.StatusOK, s.requests[i])
			return
		}
	}
	errorJSON(c, http.StatusNotFound, errors.New("seller request not found"))
}

func (s *Server) handleSellerRequests(c *gin.Context) {
	u, _ := s.user(currentUserID(c))
	if u.Role != auth.RoleAdmin {
		errorJSON(c, http.StatusForbidden, errors.New("admin access required"))
		return
	}

	status := api.SellerRequestStatus(c.Query("status"))
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	s.mu.RLock()
	matched := make([]api.SellerRequest, 0)
	for _, r := range s.requests {
		if status == "" || r.Status == status {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))

	c.JSON(http.StatusOK, api.SellerRequestPage{
		Requests: matched[start:end],
		Total:    len(matched),
		Page:     page,
		Limit:    limit,
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// distanceKM is the great-circle distance between two coordinates.
func distanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
