package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/ledger"
)

func loanIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(id), true
}

func LoanRequestHandler(w http.ResponseWriter, r *http.Request) {
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

	outcome, err := ledger.RequestLoan(r.Context(), account.ID, amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if outcome.Rejected {
		httputil.WriteWarning(w, outcome.Reason)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, outcome.Tx)
}

func LoanListHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	loans, err := ledger.LoanList(r.Context(), account.ID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loans)
}

// PayLoanHandler repays an approved loan. Exposed as an explicit POST
// action, never a GET.
func PayLoanHandler(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}

	loanID, ok := loanIDParam(w, r)
	if !ok {
		return
	}

	outcome, err := ledger.PayLoan(r.Context(), account.ID, loanID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if outcome.Rejected {
		httputil.WriteWarning(w, outcome.Reason)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome.Tx)
}
