package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nmkhans/mamar-bank/configs"
	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/ledger"
	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/middleware"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func currentUserID(r *http.Request) (uint, bool) {
	userID, ok := r.Context().Value(middleware.UserIDContextKey).(uint)
	return userID, ok
}

// currentAccount resolves the caller's account, writing the error response
// itself when it cannot.
func currentAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	userID, ok := currentUserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	var account models.Account
	if err := store.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		logger.Log.Error("failed to resolve account", zap.Uint("userID", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to resolve account")
		return nil, false
	}
	return &account, true
}

// writeLedgerError maps ledger errors onto HTTP responses.
func writeLedgerError(w http.ResponseWriter, err error) {
	var fieldErr *ledger.FieldError
	if errors.As(err, &fieldErr) {
		httputil.WriteFieldError(w, fieldErr.Field, fieldErr.Message)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	logger.Log.Error("ledger operation failed", zap.Error(err))
	httputil.WriteError(w, http.StatusInternalServerError, "internal error")
}

func signToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
