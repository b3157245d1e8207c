package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction type tags. A loan row flips to TypeLoanPaid when repaid.
const (
	TypeDeposit  = "deposit"
	TypeWithdraw = "withdraw"
	TypeLoan     = "loan"
	TypeLoanPaid = "loan-paid"
	TypeTransfer = "balance-transfer"
)

const (
	AccountTypeSavings = "savings"
	AccountTypeCurrent = "current"
)

type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FirstName string `gorm:"size:50" json:"first_name"`
	LastName  string `gorm:"size:50" json:"last_name"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255" json:"-"`
	IsStaff   bool   `gorm:"default:false" json:"is_staff"`
}

type Address struct {
	gorm.Model
	UserID        uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	StreetAddress string `gorm:"size:100" json:"street_address"`
	City          string `gorm:"size:100" json:"city"`
	PostalCode    int    `json:"postal_code"`
	Country       string `gorm:"size:100" json:"country"`
}

type Account struct {
	gorm.Model
	UserID      uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	AccountNo   string          `gorm:"size:6;uniqueIndex;not null" json:"account_no"`
	AccountType string          `gorm:"size:100" json:"account_type"`
	DateOfBirth *time.Time      `json:"date_of_birth,omitempty"`
	Gender      string          `gorm:"size:100" json:"gender"`
	Balance     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance"`
}

// Transaction is immutable after creation except for loan rows: approval sets
// LoanApproved and refreshes the snapshot, repayment flips the type to
// loan-paid. CreatedAt doubles as the transaction timestamp and ordering key.
type Transaction struct {
	gorm.Model
	AccountID               uint            `gorm:"index;not null" json:"account_id"`
	Account                 Account         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount                  decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	BalanceAfterTransaction decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance_after_transaction"`
	TransactionType         string          `gorm:"size:20;index" json:"transaction_type"`
	LoanApproved            bool            `gorm:"default:false" json:"loan_approved"`
}
