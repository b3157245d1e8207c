package handlers

import (
	"net/http"
	"time"

	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/ledger"
	"github.com/shopspring/decimal"
)

type AmountRequest struct {
	Amount string `json:"amount"`
}

type TransferRequest struct {
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

func parseAmount(w http.ResponseWriter, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		httputil.WriteFieldError(w, "amount", "amount must be a decimal number")
		return decimal.Decimal{}, false
	}
	return amount, true
}

func DepositHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := ledger.Deposit(r.Context(), account.ID, amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	var req AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := ledger.Withdraw(r.Context(), account.ID, amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func TransferHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := ledger.Transfer(r.Context(), account.ID, amount, req.Recipient)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tx)
}

// ReportHandler lists the account's transactions, optionally filtered by an
// inclusive start_date/end_date range (YYYY-MM-DD). Both dates must be given
// for the range to apply.
func ReportHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	var start, end *time.Time
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr != "" && endStr != "" {
		s, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			httputil.WriteFieldError(w, "start_date", "date must be in YYYY-MM-DD format")
			return
		}
		e, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			httputil.WriteFieldError(w, "end_date", "date must be in YYYY-MM-DD format")
			return
		}
		start, end = &s, &e
	}

	report, err := ledger.Report(r.Context(), account.ID, start, end)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
