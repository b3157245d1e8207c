// Package notify implements the email collaborator invoked after each
// successful balance mutation. Dispatch is best-effort: a failed send is
// logged and never affects the committed mutation.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Template keys, one per notice kind.
const (
	TplDeposit        = "deposit"
	TplWithdraw       = "withdraw"
	TplLoanRequest    = "loan_request"
	TplLoanApproval   = "loan_approval"
	TplLoanPaid       = "loan_paid"
	TplTransferDebit  = "transfer_debit"
	TplTransferCredit = "transfer_credit"
)

type Notifier interface {
	Send(ctx context.Context, subject string, user models.User, amount decimal.Decimal, templateKey string) error
}

var active Notifier = Nop{}

// SetNotifier swaps the active collaborator. Called once at boot.
func SetNotifier(n Notifier) {
	active = n
}

// Dispatch sends a notice through the active notifier, swallowing failures.
func Dispatch(ctx context.Context, subject string, user models.User, amount decimal.Decimal, templateKey string) {
	if err := active.Send(ctx, subject, user, amount, templateKey); err != nil {
		logger.Log.Warn("notification dispatch failed",
			zap.String("template", templateKey),
			zap.String("recipient", user.Email),
			zap.Error(err))
	}
}

// Nop discards every notice. Used when smtp is disabled and in tests.
type Nop struct{}

func (Nop) Send(ctx context.Context, subject string, user models.User, amount decimal.Decimal, templateKey string) error {
	return nil
}

var bodies = template.Must(template.New("notices").Parse(`
{{define "deposit"}}Dear {{.Name}},

{{.Amount}} was deposited to your account successfully.

Mamar Bank{{end}}

{{define "withdraw"}}Dear {{.Name}},

{{.Amount}} was withdrawn from your account successfully.

Mamar Bank{{end}}

{{define "loan_request"}}Dear {{.Name}},

Your loan request of {{.Amount}} has been received. We will confirm soon.

Mamar Bank{{end}}

{{define "loan_approval"}}Dear {{.Name}},

Your loan of {{.Amount}} has been approved and credited to your account.

Mamar Bank{{end}}

{{define "loan_paid"}}Dear {{.Name}},

Your loan of {{.Amount}} has been repaid in full.

Mamar Bank{{end}}

{{define "transfer_debit"}}Dear {{.Name}},

{{.Amount}} was transferred from your account.

Mamar Bank{{end}}

{{define "transfer_credit"}}Dear {{.Name}},

{{.Amount}} was transferred to your account.

Mamar Bank{{end}}
`))

type noticeData struct {
	Name   string
	Amount string
}

func renderBody(templateKey string, user models.User, amount decimal.Decimal) (string, error) {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	var buf bytes.Buffer
	err := bodies.ExecuteTemplate(&buf, templateKey, noticeData{
		Name:   name,
		Amount: amount.StringFixed(2),
	})
	if err != nil {
		return "", fmt.Errorf("render notice %q: %w", templateKey, err)
	}
	return buf.String(), nil
}
