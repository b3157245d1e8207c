package ledger

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/nmkhans/mamar-bank/internal/models"
	"gorm.io/gorm"
)

const accountNoAttempts = 10

var accountNoSpace = big.NewInt(1000000)

// GenerateAccountNo returns a 6-digit account number not yet taken,
// retrying on the rare collision.
func GenerateAccountNo(db *gorm.DB) (string, error) {
	for i := 0; i < accountNoAttempts; i++ {
		n, err := rand.Int(rand.Reader, accountNoSpace)
		if err != nil {
			return "", err
		}
		no := fmt.Sprintf("%06d", n)

		var count int64
		if err := db.Model(&models.Account{}).Where("account_no = ?", no).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return no, nil
		}
	}
	return "", errors.New("could not allocate a unique account number")
}
