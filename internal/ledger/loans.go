package ledger

import (
	"context"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/nmkhans/mamar-bank/internal/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestLoan records a loan request. No amount bounds apply, but an account
// already holding maxApprovedLoans approved loans is rejected without a row.
func RequestLoan(ctx context.Context, accountID uint, amount decimal.Decimal) (Outcome, error) {
	var out Outcome
	var owner models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var account models.Account
		if err := db.First(&account, accountID).Error; err != nil {
			return err
		}

		var approved int64
		if err := db.Model(&models.Transaction{}).
			Where("account_id = ? AND transaction_type = ? AND loan_approved = ?",
				account.ID, models.TypeLoan, true).
			Count(&approved).Error; err != nil {
			return err
		}
		if approved >= maxApprovedLoans {
			out = rejected("your loan credit has exceeded, please repay your pending loans first")
			return nil
		}

		tx := models.Transaction{
			AccountID:               account.ID,
			Amount:                  amount,
			BalanceAfterTransaction: account.Balance,
			TransactionType:         models.TypeLoan,
		}
		if err := db.Create(&tx).Error; err != nil {
			return err
		}
		out = Outcome{Tx: &tx}

		return db.First(&owner, account.UserID).Error
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.Rejected {
		notify.Dispatch(ctx, "Loan Request", owner, out.Tx.Amount, notify.TplLoanRequest)
	}
	return out, nil
}

// ApproveLoan is the privileged operation: it flags the loan approved,
// credits the account and refreshes the snapshot. The credit applies exactly
// once; an already-approved or non-loan row is rejected.
func ApproveLoan(ctx context.Context, loanID uint) (Outcome, error) {
	var out Outcome
	var owner models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var loan models.Transaction
		if err := db.First(&loan, loanID).Error; err != nil {
			return err
		}

		if loan.TransactionType != models.TypeLoan {
			out = rejected("transaction is not a loan")
			return nil
		}
		if loan.LoanApproved {
			out = rejected("loan is already approved")
			return nil
		}

		var account models.Account
		if err := db.First(&account, loan.AccountID).Error; err != nil {
			return err
		}

		account.Balance = account.Balance.Add(loan.Amount)
		if err := db.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("balance", account.Balance).Error; err != nil {
			return err
		}

		loan.LoanApproved = true
		loan.BalanceAfterTransaction = account.Balance
		if err := db.Model(&models.Transaction{}).Where("id = ?", loan.ID).
			Updates(map[string]any{
				"loan_approved":             true,
				"balance_after_transaction": loan.BalanceAfterTransaction,
			}).Error; err != nil {
			return err
		}
		out = Outcome{Tx: &loan}

		return db.First(&owner, account.UserID).Error
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.Rejected {
		notify.Dispatch(ctx, "Loan Approved", owner, out.Tx.Amount, notify.TplLoanApproval)
	}
	return out, nil
}

// PayLoan repays an approved loan. The loan amount must be strictly less
// than the balance; equality is rejected. The same row is mutated: snapshot
// refreshed, type flipped to loan-paid.
func PayLoan(ctx context.Context, accountID, loanID uint) (Outcome, error) {
	var out Outcome
	var owner models.User
	err := inTx(ctx, func(db *gorm.DB) error {
		var loan models.Transaction
		if err := db.Where("id = ? AND account_id = ?", loanID, accountID).
			First(&loan).Error; err != nil {
			return err
		}

		if loan.TransactionType != models.TypeLoan || !loan.LoanApproved {
			out = rejected("loan is not approved")
			return nil
		}

		var account models.Account
		if err := db.First(&account, loan.AccountID).Error; err != nil {
			return err
		}

		if !loan.Amount.LessThan(account.Balance) {
			out = rejected("insufficient balance amount")
			return nil
		}

		account.Balance = account.Balance.Sub(loan.Amount)
		if err := db.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("balance", account.Balance).Error; err != nil {
			return err
		}

		loan.BalanceAfterTransaction = account.Balance
		loan.TransactionType = models.TypeLoanPaid
		if err := db.Model(&models.Transaction{}).Where("id = ?", loan.ID).
			Updates(map[string]any{
				"balance_after_transaction": loan.BalanceAfterTransaction,
				"transaction_type":          models.TypeLoanPaid,
			}).Error; err != nil {
			return err
		}
		out = Outcome{Tx: &loan}

		return db.First(&owner, account.UserID).Error
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.Rejected {
		notify.Dispatch(ctx, "Loan Repaid", owner, out.Tx.Amount, notify.TplLoanPaid)
	}
	return out, nil
}

// LoanList returns the account's loan-type transactions regardless of
// approval status, oldest first.
func LoanList(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	var loans []models.Transaction
	err := store.DB.WithContext(ctx).
		Where("account_id = ? AND transaction_type = ?", accountID, models.TypeLoan).
		Order("created_at ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}
