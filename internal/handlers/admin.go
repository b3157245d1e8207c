package handlers

import (
	"net/http"

	"github.com/nmkhans/mamar-bank/internal/httputil"
	"github.com/nmkhans/mamar-bank/internal/ledger"
)

// ApproveLoanHandler is the privileged operation behind the staff-only
// route: it approves a pending loan and credits the owning account.
func ApproveLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDParam(w, r)
	if !ok {
		return
	}

	outcome, err := ledger.ApproveLoan(r.Context(), loanID)
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
