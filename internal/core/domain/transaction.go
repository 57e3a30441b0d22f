package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes the three ledger entry kinds recorded against
// an instrument.
type TransactionKind string

const (
	// Drawdown increases the instrument's outstanding drawn principal.
	Drawdown TransactionKind = "DRAWDOWN"
	// Payment decreases outstanding principal. Stored as a positive magnitude.
	Payment TransactionKind = "PAYMENT"
	// ClientCredit is an inflow recorded against the line, distinct from a
	// direct payment. See the usage ledger for how it affects balances.
	ClientCredit TransactionKind = "CLIENT_CREDIT"
)

// IsValid reports whether k is a known transaction kind.
func (k TransactionKind) IsValid() bool {
	switch k {
	case Drawdown, Payment, ClientCredit:
		return true
	}
	return false
}

// UsageTransaction is one ledger entry against a credit instrument.
//
// Rows are immutable once created except for deletion; balances are always
// re-derived by replaying the full ordered set, never read from a cached
// running total.
type UsageTransaction struct {
	TransactionID int64           `json:"transactionID"` // Primary Key
	InstrumentID  int64           `json:"instrumentID"`  // FK -> instruments.instrument_id
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"` // positive magnitude for every kind
	Kind          TransactionKind `json:"kind"`
	Description   string          `json:"description"` // Nullable
	// TransactionFee is only meaningful for Drawdown entries.
	TransactionFee *decimal.Decimal `json:"transactionFee,omitempty"`
	AuditFields
}

// Fee returns the transaction fee or zero when unset.
func (t UsageTransaction) Fee() decimal.Decimal {
	if t.TransactionFee == nil {
		return decimal.Zero
	}
	return *t.TransactionFee
}
