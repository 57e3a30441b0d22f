package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageTransaction is the persistence shape of one ledger entry.
type UsageTransaction struct {
	TransactionID  int64            `db:"transaction_id"`
	InstrumentID   int64            `db:"instrument_id"`
	Date           time.Time        `db:"txn_date"`
	Amount         decimal.Decimal  `db:"amount"`
	Kind           string           `db:"kind"`
	Description    string           `db:"description"`
	TransactionFee *decimal.Decimal `db:"transaction_fee"`
	AuditFields
}
