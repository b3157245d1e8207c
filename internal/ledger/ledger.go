// Package ledger holds the balance-mutation operations: deposit, withdraw,
// the loan lifecycle and peer transfers. Every read-modify-write runs inside
// a serializable database transaction so concurrent operations against the
// same account cannot interleave.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/nmkhans/mamar-bank/internal/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	minDeposit  = decimal.NewFromInt(100)
	minWithdraw = decimal.NewFromInt(500)
	maxWithdraw = decimal.NewFromInt(20000)
)

// maxApprovedLoans caps concurrently approved, unpaid loans per account.
const maxApprovedLoans = 3

func inTx(ctx context.Context, fn func(db *gorm.DB) error) error {
	return store.DB.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// Deposit credits the account and appends a deposit transaction.
func Deposit(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.LessThan(minDeposit) {
		return nil, &FieldError{Field: "amount", Message: fmt.Sprintf("you need to deposit at least %s", minDeposit)}
	}

	var tx models.Transaction
	var owner models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var account models.Account
		if err := db.First(&account, accountID).Error; err != nil {
			return err
		}

		account.Balance = account.Balance.Add(amount)
		if err := db.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("balance", account.Balance).Error; err != nil {
			return err
		}

		tx = models.Transaction{
			AccountID:               account.ID,
			Amount:                  amount,
			BalanceAfterTransaction: account.Balance,
			TransactionType:         models.TypeDeposit,
		}
		if err := db.Create(&tx).Error; err != nil {
			return err
		}

		return db.First(&owner, account.UserID).Error
	})
	if err != nil {
		return nil, err
	}

	notify.Dispatch(ctx, "Deposit", owner, amount, notify.TplDeposit)
	return &tx, nil
}

// Withdraw debits the account and appends a withdraw transaction. The
// checks run in order: minimum, maximum, then sufficient balance.
func Withdraw(ctx context.Context, accountID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.LessThan(minWithdraw) {
		return nil, &FieldError{Field: "amount", Message: fmt.Sprintf("you can not withdraw below %s", minWithdraw)}
	}
	if amount.GreaterThan(maxWithdraw) {
		return nil, &FieldError{Field: "amount", Message: fmt.Sprintf("you can not withdraw more than %s", maxWithdraw)}
	}

	var tx models.Transaction
	var owner models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var account models.Account
		if err := db.First(&account, accountID).Error; err != nil {
			return err
		}

		if amount.GreaterThan(account.Balance) {
			return &FieldError{
				Field:   "amount",
				Message: fmt.Sprintf("insufficient balance, your current balance is %s", account.Balance.StringFixed(2)),
			}
		}

		account.Balance = account.Balance.Sub(amount)
		if err := db.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("balance", account.Balance).Error; err != nil {
			return err
		}

		tx = models.Transaction{
			AccountID:               account.ID,
			Amount:                  amount,
			BalanceAfterTransaction: account.Balance,
			TransactionType:         models.TypeWithdraw,
		}
		if err := db.Create(&tx).Error; err != nil {
			return err
		}

		return db.First(&owner, account.UserID).Error
	})
	if err != nil {
		return nil, err
	}

	notify.Dispatch(ctx, "Withdrawal", owner, amount, notify.TplWithdraw)
	return &tx, nil
}
