package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newSeeded(t *testing.T) *Server {
	t.Helper()
	s := New(Config{Secret: "test"})
	require.NoError(t, s.Seed())
	return s
}

func serve(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, BasePath+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func tokenFor(t *testing.T, s *Server, email string) string {
	t.Helper()
	rec := serve(t, s, http.MethodPost, "/login", "", loginInput{Email: email, Password: SeedPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sess auth.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess.Token
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Register(t *testing.T) {
	tests := []struct {
		name    string
		input   registerInput
		status  int
		role    auth.Role
		wantErr string
	}{
		{
			name:   "defaults to consumer",
			input:  registerInput{Name: "Budi", Email: "budi@example.com", Password: "secret1"},
			status: http.StatusCreated,
			role:   auth.RoleConsumer,
		},
		{
			name:   "business",
			input:  registerInput{Name: "Toko", Email: "toko@example.com", Password: "secret1", UserType: "business"},
			status: http.StatusCreated,
			role:   auth.RoleBusiness,
		},
		{
			name:    "admin is not self-service",
			input:   registerInput{Name: "Eve", Email: "eve@example.com", Password: "secret1", UserType: "admin"},
			status:  http.StatusBadRequest,
			wantErr: errInvalidUserType.Error(),
		},
		{
			name:    "duplicate email is case insensitive",
			input:   registerInput{Name: "Dup", Email: "CONSUMER@foodverse.test", Password: "secret1"},
			status:  http.StatusBadRequest,
			wantErr: ErrEmailTaken.Error(),
		},
		{
			name:   "short password",
			input:  registerInput{Name: "Short", Email: "short@example.com", Password: "abc"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeeded(t)
			rec := serve(t, s, http.MethodPost, "/register", "", tt.input)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.status != http.StatusCreated {
				msg := errorBody(t, rec)
				assert.NotEmpty(t, msg)
				if tt.wantErr != "" {
					assert.Equal(t, tt.wantErr, msg)
				}
				return
			}

			var sess auth.Session
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
			assert.Equal(t, tt.role, sess.User.Role)
			assert.NotEmpty(t, sess.Token)
		})
	}
}

func TestServer_Login(t *testing.T) {
	s := newSeeded(t)

	rec := serve(t, s, http.MethodPost, "/login", "", loginInput{Email: SeedAdminEmail, Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrBadCredentials.Error(), errorBody(t, rec))

	rec = serve(t, s, http.MethodPost, "/login", "", loginInput{Email: "nobody@foodverse.test", Password: SeedPassword})
	assert.Equal(t, ErrBadCredentials.Error(), errorBody(t, rec))

	token := tokenFor(t, s, SeedAdminEmail)
	claims, err := s.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, SeedAdminEmail, claims.Email)
	assert.Equal(t, string(auth.RoleAdmin), claims.Role)
}

func TestServer_requireAuth(t *testing.T) {
	s := newSeeded(t)

	t.Run("missing header", func(t *testing.T) {
		rec := serve(t, s, http.MethodGet, "/user", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authorization header required", errorBody(t, rec))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := New(Config{Secret: "other"})
		u, err := other.AddUser("X", "x@example.com", "secret1", auth.RoleConsumer)
		require.NoError(t, err)
		token, _, err := other.IssueToken(u)
		require.NoError(t, err)

		rec := serve(t, s, http.MethodGet, "/user", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid or expired token", errorBody(t, rec))
	})

	t.Run("expired", func(t *testing.T) {
		token := tokenFor(t, s, SeedConsumerEmail)

		s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
		t.Cleanup(func() { s.now = time.Now })

		rec := serve(t, s, http.MethodGet, "/user", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid", func(t *testing.T) {
		token := tokenFor(t, s, SeedConsumerEmail)
		rec := serve(t, s, http.MethodGet, "/user", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var u auth.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
		assert.Equal(t, SeedConsumerEmail, u.Email)
	})
}

func TestServer_StoreFoodBags(t *testing.T) {
	s := newSeeded(t)
	token := tokenFor(t, s, SeedConsumerEmail)

	rec := serve(t, s, http.MethodGet, "/store-food-bags/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrUnknownStore.Error(), errorBody(t, rec))

	rec = serve(t, s, http.MethodGet, "/store-food-bags/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SearchFoodBags_filters(t *testing.T) {
	s := newSeeded(t)
	token := tokenFor(t, s, SeedConsumerEmail)

	search := func(q api.FoodBagSearch) []api.FoodBag {
		rec := serve(t, s, http.MethodPost, "/food-bags/search", token, q)
		require.Equal(t, http.StatusOK, rec.Code)
		var bags []api.FoodBag
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bags))
		return bags
	}

	base := api.FoodBagSearch{Latitude: SeedLocation.Latitude, Longitude: SeedLocation.Longitude}

	assert.Len(t, search(base), 2)

	byCategory := base
	byCategory.Category = "bakery"
	got := search(byCategory)
	require.Len(t, got, 1)
	assert.Equal(t, "Fresh Bread Bundle", got[0].Title)

	cheap := base
	cheap.MaxPrice = 8
	got = search(cheap)
	require.Len(t, got, 1)
	assert.InDelta(t, 6, got[0].DiscountedPrice, 0.001)
}

func TestServer_SellerRequests_paging(t *testing.T) {
	s := newSeeded(t)

	for i := range 3 {
		u, err := s.AddUser("Applicant", "applicant"+string(rune('a'+i))+"@example.com", "secret1", auth.RoleConsumer)
		require.NoError(t, err)
		_, err = s.AddSellerRequest(u.ID, api.SellerRequest{Reason: "surplus"})
		require.NoError(t, err)
	}

	token := tokenFor(t, s, SeedAdminEmail)
	rec := serve(t, s, http.MethodGet, "/seller-requests?page=2&limit=3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page api.SellerRequestPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Requests, 1)

	rec = serve(t, s, http.MethodGet, "/seller-requests?status=approved", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Requests)
}

func TestServer_MySellerRequest_missing(t *testing.T) {
	s := newSeeded(t)
	token := tokenFor(t, s, SeedBusinessEmail)

	rec := serve(t, s, http.MethodGet, "/seller-requests/my", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "seller request not found", errorBody(t, rec))
}

func TestDistanceKM(t *testing.T) {
	assert.InDelta(t, 0, distanceKM(1, 1, 1, 1), 1e-9)
	// Jakarta to Bandung is roughly 120 km as the crow flies.
	assert.InDelta(t, 120, distanceKM(-6.2088, 106.8456, -6.9175, 107.6191), 10)
}
