package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizrate/internal/config"
	"bizrate/internal/models"
	"bizrate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserTestServer(mockRepo *MockUserRepository) *Server {
	return &Server{
		config:      &config.Config{JWTSecret: "test_secret"},
		userRepo:    mockRepo,
		userService: service.NewUserService(mockRepo),
	}
}

func TestGetMyProfile(t *testing.T) {
	s := newUserTestServer(new(MockUserRepository))
	app := fiber.New()
	app.Use(withUser(&models.User{ID: 9, Username: "me", Email: "me@example.com", Role: models.RoleUser}))
	app.Get("/me", s.GetMyProfile)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "me", user.Username)
}

func TestGetAllUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	s := newUserTestServer(mockRepo)
	app := fiber.New()
	app.Use(withUser(&models.User{ID: 1, Role: models.RoleAdmin}))
	app.Get("/users", s.GetAllUsers)

	mockRepo.On("List", mock.Anything, 20, 0).Return([]models.User{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
	}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/users", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 2)
}

func TestUpdateUserRole(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	tests := []struct {
		name           string
		targetID       string
		role           string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name:     "Promote To Supervisor",
			targetID: "2",
			role:     "supervisor",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(2)).Return(&models.User{ID: 2, Role: models.RoleUser}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Role == models.RoleSupervisor
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown Role",
			targetID:       "2",
			role:           "owner",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Own Role",
			targetID:       "1",
			role:           "user",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "Target Missing",
			targetID: "99",
			role:     "admin",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("User", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newUserTestServer(mockRepo)
			app := fiber.New()
			app.Use(withUser(admin))
			app.Patch("/users/:id/role", s.UpdateUserRole)

			body, _ := json.Marshal(map[string]string{"role": tt.role})
			req := httptest.NewRequest(http.MethodPatch, "/users/"+tt.targetID+"/role", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	tests := []struct {
		name           string
		targetID       string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name:     "Success",
			targetID: "2",
			mockSetup: func(m *MockUserRepository) {
				m.On("Delete", mock.Anything, uint(2)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Own Account",
			targetID:       "1",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "Missing",
			targetID: "99",
			mockSetup: func(m *MockUserRepository) {
				m.On("Delete", mock.Anything, uint(99)).Return(models.NewNotFoundError("User", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newUserTestServer(mockRepo)
			app := fiber.New()
			app.Use(withUser(admin))
			app.Delete("/users/:id", s.DeleteUser)

			resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/users/"+tt.targetID, nil))
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
