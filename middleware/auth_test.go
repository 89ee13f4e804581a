package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
)

func setupGuard(t *testing.T) (*dao.UserDAO, *gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userDAO := dao.NewUserDAO(db)

	handlerRan := false
	r := gin.New()
	r.GET("/protected", Auth(userDAO), func(ctx *gin.Context) {
		handlerRan = true
		user, ok := UserFrom(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"address": user.Address})
	})

	return userDAO, r, &handlerRan
}

func TestAuth_MissingToken(t *testing.T) {
	_, r, handlerRan := setupGuard(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan, "handler must not run without a token")
	assert.Contains(t, w.Body.String(), "missing token")
}

func TestAuth_UnknownToken(t *testing.T) {
	_, r, handlerRan := setupGuard(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "nope")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuth_ExpiredToken(t *testing.T) {
	userDAO, r, handlerRan := setupGuard(t)

	require.NoError(t, userDAO.CreateUser(context.Background(), &models.User{
		Address:  "0xABC",
		Token:    "t1",
		ExpireAt: time.Now().Add(-time.Minute),
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "t1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan, "expired token must not reach the handler")
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuth_StoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	handlerRan := false
	r := gin.New()
	r.GET("/protected", Auth(dao.NewUserDAO(db)), func(ctx *gin.Context) {
		handlerRan = true
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "t1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code, "store failures map to a dependency status")
	assert.False(t, handlerRan)
	assert.Contains(t, w.Body.String(), "user store unavailable")
}

func TestAuth_ValidToken(t *testing.T) {
	userDAO, r, handlerRan := setupGuard(t)

	require.NoError(t, userDAO.CreateUser(context.Background(), &models.User{
		Address:  "0xABC",
		Token:    "t1",
		ExpireAt: time.Now().Add(time.Hour),
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "t1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *handlerRan)
	assert.Contains(t, w.Body.String(), "0xABC")
}
