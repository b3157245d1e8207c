package ledger

import (
	"fmt"

	"github.com/nmkhans/mamar-bank/internal/models"
)

// FieldError is a validation failure attached to a single input field.
// No mutation happens when one is returned.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Outcome is the result of an operation that can be rejected by a business
// rule without raising an error: loan cap reached, repayment with
// insufficient balance, approval of a non-loan row. Rejected means no
// mutation occurred.
type Outcome struct {
	Tx       *models.Transaction
	Rejected bool
	Reason   string
}

func rejected(reason string) Outcome {
	return Outcome{Rejected: true, Reason: reason}
}
