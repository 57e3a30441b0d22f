package dto

import (
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest defines the data needed to append one usage
// transaction to an instrument's ledger.
type RecordTransactionRequest struct {
	Date           string                 `json:"date" binding:"required,datetime=2006-01-02"`
	Amount         decimal.Decimal        `json:"amount" binding:"required"`
	Kind           domain.TransactionKind `json:"kind" binding:"required,txnkind"`
	Description    string                 `json:"description"`
	TransactionFee *decimal.Decimal       `json:"transactionFee"` // drawdowns only
}

// ToDomainTransaction converts the request into a domain transaction for the
// given instrument.
func (r RecordTransactionRequest) ToDomainTransaction(instrumentID int64) domain.UsageTransaction {
	date, _ := time.Parse(dateLayout, r.Date)
	return domain.UsageTransaction{
		InstrumentID:   instrumentID,
		Date:           date,
		Amount:         r.Amount,
		Kind:           r.Kind,
		Description:    r.Description,
		TransactionFee: r.TransactionFee,
	}
}

// TransactionResponse mirrors domain.UsageTransaction for API output.
type TransactionResponse struct {
	TransactionID  int64                  `json:"transactionID"`
	InstrumentID   int64                  `json:"instrumentID"`
	Date           string                 `json:"date"`
	Amount         decimal.Decimal        `json:"amount"`
	Kind           domain.TransactionKind `json:"kind"`
	Description    string                 `json:"description,omitempty"`
	TransactionFee *decimal.Decimal       `json:"transactionFee,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(txn *domain.UsageTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		InstrumentID:   txn.InstrumentID,
		Date:           txn.Date.Format(dateLayout),
		Amount:         txn.Amount,
		Kind:           txn.Kind,
		Description:    txn.Description,
		TransactionFee: txn.TransactionFee,
		CreatedAt:      txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain transactions.
func ToListTransactionResponse(txns []domain.UsageTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
