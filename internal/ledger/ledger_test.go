package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/nmkhans/mamar-bank/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}, &models.Account{}, &models.Transaction{}))
	store.DB = db
	return db
}

// recorder captures dispatched notification template keys.
type recorder struct {
	keys []string
}

func (r *recorder) Send(ctx context.Context, subject string, user models.User, amount decimal.Decimal, templateKey string) error {
	r.keys = append(r.keys, templateKey)
	return nil
}

func useRecorder(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	notify.SetNotifier(rec)
	t.Cleanup(func() { notify.SetNotifier(notify.Nop{}) })
	return rec
}

func seedAccount(t *testing.T, db *gorm.DB, username, balance string) models.Account {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	account := models.Account{
		UserID:      user.ID,
		AccountNo:   fmt.Sprintf("%06d", user.ID),
		AccountType: models.AccountTypeSavings,
		Balance:     decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func reloadAccount(t *testing.T, db *gorm.DB, id uint) models.Account {
	t.Helper()
	var account models.Account
	require.NoError(t, db.First(&account, id).Error)
	return account
}

func countTransactions(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&n).Error)
	return n
}

func TestDepositBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "0")

	_, err := Deposit(context.Background(), account.ID, decimal.NewFromInt(50))

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "amount", fieldErr.Field)

	require.EqualValues(t, 0, countTransactions(t, db, account.ID))
	require.True(t, reloadAccount(t, db, account.ID).Balance.IsZero())
}

func TestDeposit(t *testing.T) {
	db := newTestDB(t)
	rec := useRecorder(t)
	account := seedAccount(t, db, "alice", "0")

	tx, err := Deposit(context.Background(), account.ID, decimal.NewFromInt(150))
	require.NoError(t, err)

	require.Equal(t, models.TypeDeposit, tx.TransactionType)
	require.True(t, tx.Amount.Equal(decimal.NewFromInt(150)))
	require.True(t, tx.BalanceAfterTransaction.Equal(decimal.NewFromInt(150)))
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(150)))
	require.Equal(t, []string{notify.TplDeposit}, rec.keys)
}

func TestWithdrawBounds(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "50000")

	var fieldErr *FieldError

	_, err := Withdraw(context.Background(), account.ID, decimal.NewFromInt(499))
	require.ErrorAs(t, err, &fieldErr)

	_, err = Withdraw(context.Background(), account.ID, decimal.NewFromInt(20001))
	require.ErrorAs(t, err, &fieldErr)

	require.EqualValues(t, 0, countTransactions(t, db, account.ID))
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(50000)))
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "1000")

	_, err := Withdraw(context.Background(), account.ID, decimal.NewFromInt(5000))

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Contains(t, fieldErr.Message, "1000.00")
	require.EqualValues(t, 0, countTransactions(t, db, account.ID))
}

func TestWithdraw(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "1000")

	tx, err := Withdraw(context.Background(), account.ID, decimal.NewFromInt(600))
	require.NoError(t, err)

	require.Equal(t, models.TypeWithdraw, tx.TransactionType)
	require.True(t, tx.BalanceAfterTransaction.Equal(decimal.NewFromInt(400)))
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(400)))
}

func TestRequestLoan(t *testing.T) {
	db := newTestDB(t)
	rec := useRecorder(t)
	account := seedAccount(t, db, "alice", "100")

	out, err := RequestLoan(context.Background(), account.ID, decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.False(t, out.Rejected)
	require.Equal(t, models.TypeLoan, out.Tx.TransactionType)
	require.False(t, out.Tx.LoanApproved)
	require.Equal(t, []string{notify.TplLoanRequest}, rec.keys)

	// The request itself must not move money.
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(100)))
}

func TestRequestLoanCapReached(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "100")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Transaction{
			AccountID:       account.ID,
			Amount:          decimal.NewFromInt(100),
			TransactionType: models.TypeLoan,
			LoanApproved:    true,
		}).Error)
	}

	out, err := RequestLoan(context.Background(), account.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, out.Rejected)
	require.NotEmpty(t, out.Reason)

	var loans int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("account_id = ? AND transaction_type = ?", account.ID, models.TypeLoan).
		Count(&loans).Error)
	require.EqualValues(t, 3, loans)
}

func TestApproveLoan(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "100")

	loan := models.Transaction{
		AccountID:       account.ID,
		Amount:          decimal.NewFromInt(250),
		TransactionType: models.TypeLoan,
	}
	require.NoError(t, db.Create(&loan).Error)

	out, err := ApproveLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.False(t, out.Rejected)
	require.True(t, out.Tx.LoanApproved)
	require.True(t, out.Tx.BalanceAfterTransaction.Equal(decimal.NewFromInt(350)))
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(350)))

	// The credit applies exactly once.
	out, err = ApproveLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.True(t, out.Rejected)
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(350)))
}

func TestApproveLoanNotFound(t *testing.T) {
	newTestDB(t)

	_, err := ApproveLoan(context.Background(), 9999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPayLoanAmountEqualsBalance(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "500")

	loan := models.Transaction{
		AccountID:       account.ID,
		Amount:          decimal.NewFromInt(500),
		TransactionType: models.TypeLoan,
		LoanApproved:    true,
	}
	require.NoError(t, db.Create(&loan).Error)

	// amount < balance is strict: equality must be rejected.
	out, err := PayLoan(context.Background(), account.ID, loan.ID)
	require.NoError(t, err)
	require.True(t, out.Rejected)

	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(500)))
	var unchanged models.Transaction
	require.NoError(t, db.First(&unchanged, loan.ID).Error)
	require.Equal(t, models.TypeLoan, unchanged.TransactionType)
}

func TestPayLoan(t *testing.T) {
	db := newTestDB(t)
	rec := useRecorder(t)
	account := seedAccount(t, db, "alice", "600")

	loan := models.Transaction{
		AccountID:       account.ID,
		Amount:          decimal.NewFromInt(500),
		TransactionType: models.TypeLoan,
		LoanApproved:    true,
	}
	require.NoError(t, db.Create(&loan).Error)

	out, err := PayLoan(context.Background(), account.ID, loan.ID)
	require.NoError(t, err)
	require.False(t, out.Rejected)

	var paid models.Transaction
	require.NoError(t, db.First(&paid, loan.ID).Error)
	require.Equal(t, models.TypeLoanPaid, paid.TransactionType)
	require.True(t, paid.BalanceAfterTransaction.Equal(decimal.NewFromInt(100)))
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(100)))
	require.Equal(t, []string{notify.TplLoanPaid}, rec.keys)
}

func TestPayLoanNotApproved(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "1000")

	loan := models.Transaction{
		AccountID:       account.ID,
		Amount:          decimal.NewFromInt(100),
		TransactionType: models.TypeLoan,
	}
	require.NoError(t, db.Create(&loan).Error)

	out, err := PayLoan(context.Background(), account.ID, loan.ID)
	require.NoError(t, err)
	require.True(t, out.Rejected)
	require.True(t, reloadAccount(t, db, account.ID).Balance.Equal(decimal.NewFromInt(1000)))
}

func TestPayLoanUnknownID(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "1000")

	_, err := PayLoan(context.Background(), account.ID, 9999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestLoanList(t *testing.T) {
	db := newTestDB(t)
	account := seedAccount(t, db, "alice", "0")

	for _, typ := range []string{models.TypeLoan, models.TypeDeposit, models.TypeLoan} {
		require.NoError(t, db.Create(&models.Transaction{
			AccountID:       account.ID,
			Amount:          decimal.NewFromInt(100),
			TransactionType: typ,
		}).Error)
	}

	loans, err := LoanList(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	for _, loan := range loans {
		require.Equal(t, models.TypeLoan, loan.TransactionType)
	}
}
