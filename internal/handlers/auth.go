package handlers

import (
	"net/http"
	"time"

	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/ledger"
	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	AccountType   string `json:"account_type"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    int    `json:"postal_code"`
	Country       string `json:"country"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	Token   string         `json:"token"`
	User    models.User    `json:"user"`
	Account models.Account `json:"account"`
}

// RegisterHandler creates the user, address and account in one transaction
// and logs the new user in.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.Username == "":
		httputil.WriteFieldError(w, "username", "username is required")
		return
	case req.Email == "":
		httputil.WriteFieldError(w, "email", "email is required")
		return
	case req.Password == "":
		httputil.WriteFieldError(w, "password", "password is required")
		return
	}
	if req.AccountType != models.AccountTypeSavings && req.AccountType != models.AccountTypeCurrent {
		httputil.WriteFieldError(w, "account_type", "account type must be savings or current")
		return
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httputil.WriteFieldError(w, "date_of_birth", "date must be in YYYY-MM-DD format")
			return
		}
		dateOfBirth = &parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	var taken int64
	store.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&taken)
	if taken > 0 {
		httputil.WriteFieldError(w, "username", "username or email already taken")
		return
	}

	var user models.User
	var account models.Account
	err = store.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  string(hash),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		address := models.Address{
			UserID:        user.ID,
			StreetAddress: req.StreetAddress,
			City:          req.City,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}

		accountNo, err := ledger.GenerateAccountNo(tx)
		if err != nil {
			return err
		}
		account = models.Account{
			UserID:      user.ID,
			AccountNo:   accountNo,
			AccountType: req.AccountType,
			DateOfBirth: dateOfBirth,
			Gender:      req.Gender,
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		logger.Log.Error("registration failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	signed, err := signToken(user.ID)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{Token: signed, User: user, Account: account})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var user models.User
	if err := store.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	signed, err := signToken(user.ID)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

type MeResponse struct {
	User    models.User    `json:"user"`
	Account models.Account `json:"account"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
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

	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, MeResponse{User: user, Account: *account})
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func PasswordChangeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PasswordChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		httputil.WriteFieldError(w, "new_password", "new password is required")
		return
	}

	var user models.User
	if err := store.DB.First(&user, userID).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		httputil.WriteFieldError(w, "old_password", "old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	if err := store.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("password", string(hash)).Error; err != nil {
		logger.Log.Error("failed to update password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
