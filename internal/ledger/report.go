package ledger

import (
	"context"
	"time"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/store"
	"github.com/shopspring/decimal"
)

// ReportResult lists an account's transactions oldest first. With a date
// range, Balance is the sum of amounts over the matched rows, not the live
// account balance. Without one, it is the live balance.
type ReportResult struct {
	Transactions []models.Transaction `json:"transactions"`
	Balance      decimal.Decimal      `json:"balance"`
}

// Report filters the account's transactions by an optional inclusive date
// range at calendar-day granularity. The range applies only when both ends
// are given.
func Report(ctx context.Context, accountID uint, start, end *time.Time) (*ReportResult, error) {
	db := store.DB.WithContext(ctx)

	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		return nil, err
	}

	query := db.Where("account_id = ?", accountID).Order("created_at ASC")

	ranged := start != nil && end != nil
	if ranged {
		from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
		query = query.Where("created_at >= ? AND created_at < ?", from, to)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}

	result := &ReportResult{Transactions: transactions}
	if ranged {
		sum := decimal.Zero
		for _, tx := range transactions {
			sum = sum.Add(tx.Amount)
		}
		result.Balance = sum
	} else {
		result.Balance = account.Balance
	}
	return result, nil
}
