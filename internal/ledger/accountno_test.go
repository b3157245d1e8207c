package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNo(t *testing.T) {
	db := newTestDB(t)

	no, err := GenerateAccountNo(db)
	require.NoError(t, err)
	require.Len(t, no, 6)
	for _, c := range no {
		require.True(t, c >= '0' && c <= '9', "account number must be digits, got %q", no)
	}
}

func TestGenerateAccountNoAvoidsTaken(t *testing.T) {
	db := newTestDB(t)
	existing := seedAccount(t, db, "alice", "0")

	for i := 0; i < 20; i++ {
		no, err := GenerateAccountNo(db)
		require.NoError(t, err)
		require.NotEqual(t, existing.AccountNo, no)
	}
}
