package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"bizrate/internal/config"
	"bizrate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func signToken(t *testing.T, secret string, userID uint, issuer, audience string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": time.Now().Add(exp).Unix(),
		"jti": "test-jti",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return str
}

func TestServer_AuthRequired(t *testing.T) {
	secret := "test-secret-key-12345678901234567890123456789012"
	mockRepo := new(MockUserRepository)
	s := &Server{
		config:   &config.Config{JWTSecret: secret},
		userRepo: mockRepo,
	}
	app := fiber.New()

	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	mockRepo.On("GetByID", mock.Anything, uint(123)).Return(&models.User{ID: 123, Role: models.RoleUser}, nil)
	mockRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, models.NewNotFoundError("User", 404))

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			authHeader:     "Bearer " + signToken(t, secret, 123, tokenIssuer, tokenAudience, time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Token",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Header",
			authHeader:     "Token abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + signToken(t, secret, 123, tokenIssuer, tokenAudience, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Issuer",
			authHeader:     "Bearer " + signToken(t, secret, 123, "other-api", tokenAudience, time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Audience",
			authHeader:     "Bearer " + signToken(t, secret, 123, tokenIssuer, "other-client", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret",
			authHeader:     "Bearer " + signToken(t, "another-secret-entirely-0123456789012345", 123, tokenIssuer, tokenAudience, time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Deleted Account",
			authHeader:     "Bearer " + signToken(t, secret, 404, tokenIssuer, tokenAudience, time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

// Role is read from the reloaded row, not the token, so a stale admin token
// no longer grants admin access after a demotion.
func TestServer_AuthRequired_RoleFromDatabase(t *testing.T) {
	secret := "test-secret-key-12345678901234567890123456789012"
	mockRepo := new(MockUserRepository)
	s := &Server{
		config:   &config.Config{JWTSecret: secret},
		userRepo: mockRepo,
	}
	app := fiber.New()
	app.Get("/admin", s.AuthRequired(), s.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	// The database row says plain user, regardless of any claim in the token.
	mockRepo.On("GetByID", mock.Anything, uint(55)).Return(&models.User{ID: 55, Role: models.RoleUser}, nil)

	claims := jwt.MapClaims{
		"sub": "55",
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
		"role": "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, _ := token.SignedString([]byte(secret))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+str)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_AdminRequired(t *testing.T) {
	s := &Server{config: &config.Config{}}

	tests := []struct {
		name           string
		user           *models.User
		expectedStatus int
	}{
		{"Admin", &models.User{ID: 1, Role: models.RoleAdmin}, http.StatusOK},
		{"User", &models.User{ID: 2, Role: models.RoleUser}, http.StatusForbidden},
		{"Supervisor", &models.User{ID: 3, Role: models.RoleSupervisor}, http.StatusForbidden},
		{"No User", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			if tt.user != nil {
				app.Use(withUser(tt.user))
			}
			app.Get("/admin", s.AdminRequired(), func(c *fiber.Ctx) error {
				return c.SendStatus(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
