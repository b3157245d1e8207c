package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer moves amount from the sender's account to the account of the user
// named by recipientUsername. Both balance updates and the sender's
// transaction row commit atomically or not at all. One balance-transfer row
// is recorded for the sender only.
func Transfer(ctx context.Context, senderAccountID uint, amount decimal.Decimal, recipientUsername string) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &FieldError{Field: "amount", Message: "amount must be greater than zero"}
	}

	var tx models.Transaction
	var sender, recipient models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var senderAcct models.Account
		if err := db.First(&senderAcct, senderAccountID).Error; err != nil {
			return err
		}

		var recipientUser models.User
		if err := db.Where("username = ?", recipientUsername).First(&recipientUser).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &FieldError{Field: "recipient", Message: "recipient does not exist"}
			}
			return err
		}

		var recipientAcct models.Account
		if err := db.Where("user_id = ?", recipientUser.ID).First(&recipientAcct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &FieldError{Field: "recipient", Message: "recipient does not exist"}
			}
			return err
		}

		if recipientAcct.ID == senderAcct.ID {
			return &FieldError{Field: "recipient", Message: "can not transfer to your own account"}
		}

		if amount.GreaterThan(senderAcct.Balance) {
			return &FieldError{
				Field:   "amount",
				Message: fmt.Sprintf("insufficient balance, your current balance is %s", senderAcct.Balance.StringFixed(2)),
			}
		}

		senderAcct.Balance = senderAcct.Balance.Sub(amount)
		if err := db.Model(&models.Account{}).Where("id = ?", senderAcct.ID).
			Update("balance", senderAcct.Balance).Error; err != nil {
			return err
		}

		recipientAcct.Balance = recipientAcct.Balance.Add(amount)
		if err := db.Model(&models.Account{}).Where("id = ?", recipientAcct.ID).
			Update("balance", recipientAcct.Balance).Error; err != nil {
			return err
		}

		tx = models.Transaction{
			AccountID:               senderAcct.ID,
			Amount:                  amount,
			BalanceAfterTransaction: senderAcct.Balance,
			TransactionType:         models.TypeTransfer,
		}
		if err := db.Create(&tx).Error; err != nil {
			return err
		}

		if err := db.First(&sender, senderAcct.UserID).Error; err != nil {
			return err
		}
		recipient = recipientUser
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify.Dispatch(ctx, "Balance Transfer", sender, amount, notify.TplTransferDebit)
	notify.Dispatch(ctx, "Balance Transfer Received", recipient, amount, notify.TplTransferCredit)
	return &tx, nil
}
