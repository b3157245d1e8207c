package ledger

import (
	"context"
	"testing"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	db := newTestDB(t)
	rec := useRecorder(t)
	sender := seedAccount(t, db, "alice", "1000")
	receiver := seedAccount(t, db, "bob", "200")

	tx, err := Transfer(context.Background(), sender.ID, decimal.NewFromInt(300), "bob")
	require.NoError(t, err)

	require.Equal(t, models.TypeTransfer, tx.TransactionType)
	require.True(t, tx.Amount.Equal(decimal.NewFromInt(300)))
	require.True(t, tx.BalanceAfterTransaction.Equal(decimal.NewFromInt(700)))

	require.True(t, reloadAccount(t, db, sender.ID).Balance.Equal(decimal.NewFromInt(700)))
	require.True(t, reloadAccount(t, db, receiver.ID).Balance.Equal(decimal.NewFromInt(500)))

	// Exactly one row, recorded for the sender only.
	require.EqualValues(t, 1, countTransactions(t, db, sender.ID))
	require.EqualValues(t, 0, countTransactions(t, db, receiver.ID))

	require.Equal(t, []string{notify.TplTransferDebit, notify.TplTransferCredit}, rec.keys)
}

func TestTransferUnknownRecipient(t *testing.T) {
	db := newTestDB(t)
	sender := seedAccount(t, db, "alice", "1000")

	_, err := Transfer(context.Background(), sender.ID, decimal.NewFromInt(300), "nobody")

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "recipient", fieldErr.Field)

	require.True(t, reloadAccount(t, db, sender.ID).Balance.Equal(decimal.NewFromInt(1000)))
	require.EqualValues(t, 0, countTransactions(t, db, sender.ID))
}

func TestTransferNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	sender := seedAccount(t, db, "alice", "1000")
	seedAccount(t, db, "bob", "0")

	var fieldErr *FieldError

	_, err := Transfer(context.Background(), sender.ID, decimal.Zero, "bob")
	require.ErrorAs(t, err, &fieldErr)

	_, err = Transfer(context.Background(), sender.ID, decimal.NewFromInt(-5), "bob")
	require.ErrorAs(t, err, &fieldErr)

	require.EqualValues(t, 0, countTransactions(t, db, sender.ID))
}

func TestTransferInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	sender := seedAccount(t, db, "alice", "100")
	receiver := seedAccount(t, db, "bob", "0")

	_, err := Transfer(context.Background(), sender.ID, decimal.NewFromInt(300), "bob")

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "amount", fieldErr.Field)

	require.True(t, reloadAccount(t, db, sender.ID).Balance.Equal(decimal.NewFromInt(100)))
	require.True(t, reloadAccount(t, db, receiver.ID).Balance.IsZero())
}

func TestTransferToSelf(t *testing.T) {
	db := newTestDB(t)
	sender := seedAccount(t, db, "alice", "1000")

	_, err := Transfer(context.Background(), sender.ID, decimal.NewFromInt(100), "alice")

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.True(t, reloadAccount(t, db, sender.ID).Balance.Equal(decimal.NewFromInt(1000)))
}
