package handlers

import (
	"net/http"

	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileResponse struct {
	User    models.User    `json:"user"`
	Address models.Address `json:"address"`
}

type ProfileUpdateRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    int    `json:"postal_code"`
	Country       string `json:"country"`
}

func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := store.DB.First(&user, userID).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var address models.Address
	if err := store.DB.Where("user_id = ?", userID).First(&address).Error; err != nil {
		logger.Log.Error("failed to fetch address", zap.Uint("userID", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProfileResponse{User: user, Address: address})
}

func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := store.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]any{
				"first_name": req.FirstName,
				"last_name":  req.LastName,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Address{}).Where("user_id = ?", userID).
			Updates(map[string]any{
				"street_address": req.StreetAddress,
				"city":           req.City,
				"postal_code":    req.PostalCode,
				"country":        req.Country,
			}).Error
	})
	if err != nil {
		logger.Log.Error("failed to update profile", zap.Uint("userID", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	GetProfileHandler(w, r)
}
