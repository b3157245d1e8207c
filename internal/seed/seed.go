package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/nmkhans/mamar-bank/internal/ledger"
	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedPassword   = "password123"
	operatorName   = "operator"
	initialBalance = "1000.00"
)

var testCustomers = []struct {
	Username string
	Name     string
	Email    string
}{
	{"customer1", "Test Customer 1", "customer1@test.com"},
	{"customer2", "Test Customer 2", "customer2@test.com"},
	{"customer3", "Test Customer 3", "customer3@test.com"},
}

func Run() {
	db := store.DB
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", operatorName).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		operator := models.User{
			Username:  operatorName,
			FirstName: "Branch",
			LastName:  "Operator",
			Email:     "operator@mamar-bank.local",
			Password:  hashed,
			IsStaff:   true,
		}
		if err := tx.Create(&operator).Error; err != nil {
			return err
		}

		opening := decimal.RequireFromString(initialBalance)
		for _, c := range testCustomers {
			user := models.User{
				Username:  c.Username,
				FirstName: c.Name,
				Email:     c.Email,
				Password:  hashed,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			address := models.Address{
				UserID:        user.ID,
				StreetAddress: "1 Demo Street",
				City:          "Dhaka",
				PostalCode:    1000,
				Country:       "Bangladesh",
			}
			if err := tx.Create(&address).Error; err != nil {
				return err
			}

			accountNo, err := ledger.GenerateAccountNo(tx)
			if err != nil {
				return err
			}
			account := models.Account{
				UserID:      user.ID,
				AccountNo:   accountNo,
				AccountType: models.AccountTypeSavings,
				Balance:     opening,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded operator and 3 test customers", zap.String("password", seedPassword))
}
