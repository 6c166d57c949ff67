// Package mockapi is an in-memory stand-in for the FoodVerse backend. It
// serves the subset of the REST contract the client uses, with the same
// paths, JSON shapes and {"error": "..."} failures, so the client can be
// developed and tested without the real service.
package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
)

// BasePath is the prefix every route is mounted under.
const BasePath = "/api/v1"

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrUnknownStore    = errors.New("store not found")
	errInvalidUserType = errors.New("user_type must be consumer or business")
)

// Config configures a Server.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	Logger   zerolog.Logger
}

type account struct {
	user auth.User
	hash []byte
}

// Server holds the fake backend state and its gin router.
type Server struct {
	cfg    Config
	now    func() time.Time
	router *gin.Engine

	mu          sync.RWMutex
	accounts    map[int64]*account
	byEmail     map[string]int64
	stores      []api.Store
	storeOwners map[int64]int64
	bags        []api.FoodBag
	requests    []api.SellerRequest
	orders      []api.Order
	nextID      int64
}

// New creates an empty server. Zero TTL means 24 hours.
func New(cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Secret == "" {
		cfg.Secret = "foodverse-dev-secret"
	}

	s := &Server{
		cfg:         cfg,
		now:         time.Now,
		accounts:    make(map[int64]*account),
		byEmail:     make(map[string]int64),
		storeOwners: make(map[int64]int64),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.cfg.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group(BasePath)
	v1.POST("/register", s.handleRegister)
	v1.POST("/login", s.handleLogin)

	protected := v1.Group("", s.requireAuth())
	protected.GET("/user", s.handleProfile)
	protected.GET("/stores/my", s.handleOwnedStores)
	protected.POST("/stores/search", s.handleSearchStores)
	protected.POST("/food-bags/search", s.handleSearchFoodBags)
	protected.GET("/store-food-bags/:id", s.handleStoreFoodBags)
	protected.GET("/seller-requests/my", s.handleMySellerRequest)
	protected.GET("/seller-requests", s.handleSellerRequests)
	protected.POST("/orders", s.handleCreateOrder)
	protected.GET("/orders/my", s.handleMyOrders)
	protected.POST("/orders/verify-pickup", s.handleVerifyPickup)
	protected.GET("/store/:store_id/orders", s.handleStoreOrders)

	return r
}

func (s *Server) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// AddUser creates an account directly, bypassing registration rules (so
// admins can be created).
func (s *Server) AddUser(name, email, password string, role auth.Role) (auth.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return auth.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return auth.User{}, ErrEmailTaken
	}

	now := s.now()
	u := auth.User{
		ID:        s.nextIDLocked(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.byEmail[key] = u.ID
	return u, nil
}

// AddStore registers a store owned by ownerID.
func (s *Server) AddStore(ownerID int64, st api.Store) api.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st.ID = s.nextIDLocked()
	st.CreatedAt = now
	st.UpdatedAt = now
	s.stores = append(s.stores, st)
	s.storeOwners[st.ID] = ownerID
	return st
}

// AddFoodBag attaches a food bag to an existing store.
func (s *Server) AddFoodBag(storeID int64, b api.FoodBag) (api.FoodBag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.storeLocked(storeID)
	if !ok {
		return api.FoodBag{}, ErrUnknownStore
	}

	now := s.now()
	b.ID = s.nextIDLocked()
	b.Store = st
	if b.OriginalPrice > 0 && b.DiscountPercent == 0 {
		b.DiscountPercent = (b.OriginalPrice - b.DiscountedPrice) / b.OriginalPrice * 100
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bags = append(s.bags, b)
	return b, nil
}

// AddSellerRequest files a pending seller application for userID.
func (s *Server) AddSellerRequest(userID int64, r api.SellerRequest) (api.SellerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return api.SellerRequest{}, fmt.Errorf("user %d not found", userID)
	}

	now := s.now()
	r.ID = s.nextIDLocked()
	r.User = api.UserRef{ID: acc.user.ID, Name: acc.user.Name, Email: acc.user.Email, Role: string(acc.user.Role)}
	if r.Status == "" {
		r.Status = api.SellerRequestPending
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	s.requests = append(s.requests, r)
	return r, nil
}

func (s *Server) storeLocked(id int64) (api.Store, bool) {
	for _, st := range s.stores {
		if st.ID == id {
			return st, true
		}
	}
	return api.Store{}, false
}

func (s *Server) authenticate(email, password string) (auth.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	var acc *account
	if ok {
		acc = s.accounts[id]
	}
	s.mu.RUnlock()

	if acc == nil {
		return auth.User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return auth.User{}, ErrBadCredentials
	}
	return acc.user, nil
}

func (s *Server) user(id int64) (auth.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return auth.User{}, false
	}
	return acc.user, true
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
