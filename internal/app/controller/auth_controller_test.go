package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/refresh", authController.Refresh)

	return authController, router, testDB
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register(t *testing.T) {
	_, router, testDB := setupAuthControllerTest(t)

	w := postJSON(router, "/auth/register", RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Username: "newuser",
		IsSeller: true,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
	// password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password_hash")

	// the profile is created with the account
	var profile model.Profile
	require.NoError(t, testDB.Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.email = ?", "new@example.com").First(&profile).Error)
	assert.True(t, profile.IsSeller)
	assert.True(t, profile.EmailNotifications)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	_, router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/auth/register", RegisterRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Username: "first",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/auth/register", RegisterRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Username: "second",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Register_InvalidPayload(t *testing.T) {
	_, router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Login(t *testing.T) {
	_, router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/auth/register", RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
		Username: "loginuser",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/auth/login", LoginRequest{
		Email:    "Login@Example.com", // email matching is case-insensitive
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")

	w = postJSON(router, "/auth/login", LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Refresh(t *testing.T) {
	_, router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/auth/register", RegisterRequest{
		Email:    "refresh@example.com",
		Password: "password123",
		Username: "refreshuser",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Tokens struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.RefreshToken)

	w = postJSON(router, "/auth/refresh", RefreshRequest{
		RefreshToken: resp.Tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")

	w = postJSON(router, "/auth/refresh", RefreshRequest{
		RefreshToken: "garbage",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
