package mapping

import (
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/models"
)

// ToModelTransaction converts a domain UsageTransaction to its model
func ToModelTransaction(d domain.UsageTransaction) models.UsageTransaction {
	return models.UsageTransaction{
		TransactionID:  d.TransactionID,
		InstrumentID:   d.InstrumentID,
		Date:           d.Date,
		Amount:         d.Amount,
		Kind:           string(d.Kind),
		Description:    d.Description,
		TransactionFee: d.TransactionFee,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model UsageTransaction to its domain
func ToDomainTransaction(m models.UsageTransaction) domain.UsageTransaction {
	return domain.UsageTransaction{
		TransactionID:  m.TransactionID,
		InstrumentID:   m.InstrumentID,
		Date:           m.Date,
		Amount:         m.Amount,
		Kind:           domain.TransactionKind(m.Kind),
		Description:    m.Description,
		TransactionFee: m.TransactionFee,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions
func ToDomainTransactionSlice(ms []models.UsageTransaction) []domain.UsageTransaction {
	ds := make([]domain.UsageTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
