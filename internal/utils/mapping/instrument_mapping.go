package mapping

import (
	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/models"
)

func stringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ToModelInstrument converts a domain CreditInstrument to its model
func ToModelInstrument(d domain.CreditInstrument) models.CreditInstrument {
	m := models.CreditInstrument{
		InstrumentID:           d.InstrumentID,
		WorkspaceID:            d.WorkspaceID,
		Name:                   d.Name,
		InstrumentType:         string(d.InstrumentType),
		TotalLimit:             d.TotalLimit,
		AvailableAmount:        d.AvailableAmount,
		Currency:               d.Currency,
		StartDate:              d.StartDate,
		EndDate:                d.EndDate,
		AnnualInterestRate:     d.AnnualInterestRate,
		OriginationCharge:      d.OriginationCharge,
		TermMonths:             d.TermMonths,
		AssetValue:             d.AssetValue,
		ResidualValue:          d.ResidualValue,
		FinancingPercentage:    d.FinancingPercentage,
		OverdraftLimit:         d.OverdraftLimit,
		CollateralDescription:  stringPtr(d.CollateralDescription),
		Beneficiary:            stringPtr(d.Beneficiary),
		IssuingBank:            stringPtr(d.IssuingBank),
		SupportingDocumentType: stringPtr(d.SupportingDocumentType),
		IsRevolving:            d.IsRevolving,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
	if d.PaymentFrequency != nil {
		freq := string(*d.PaymentFrequency)
		m.PaymentFrequency = &freq
	}
	if d.CollateralType != nil {
		ct := string(*d.CollateralType)
		m.CollateralType = &ct
	}
	return m
}

// ToDomainInstrument converts a model CreditInstrument to its domain
func ToDomainInstrument(m models.CreditInstrument) domain.CreditInstrument {
	d := domain.CreditInstrument{
		InstrumentID:           m.InstrumentID,
		WorkspaceID:            m.WorkspaceID,
		Name:                   m.Name,
		InstrumentType:         domain.InstrumentType(m.InstrumentType),
		TotalLimit:             m.TotalLimit,
		AvailableAmount:        m.AvailableAmount,
		Currency:               m.Currency,
		StartDate:              m.StartDate,
		EndDate:                m.EndDate,
		AnnualInterestRate:     m.AnnualInterestRate,
		OriginationCharge:      m.OriginationCharge,
		TermMonths:             m.TermMonths,
		AssetValue:             m.AssetValue,
		ResidualValue:          m.ResidualValue,
		FinancingPercentage:    m.FinancingPercentage,
		OverdraftLimit:         m.OverdraftLimit,
		CollateralDescription:  stringPtr(m.CollateralDescription),
		Beneficiary:            stringPtr(m.Beneficiary),
		IssuingBank:            stringPtr(m.IssuingBank),
		SupportingDocumentType: stringPtr(m.SupportingDocumentType),
		IsRevolving:            m.IsRevolving,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
	if m.PaymentFrequency != nil {
		freq := domain.PaymentFrequency(*m.PaymentFrequency)
		d.PaymentFrequency = &freq
	}
	if m.CollateralType != nil {
		ct := domain.CollateralType(*m.CollateralType)
		d.CollateralType = &ct
	}
	return d
}

// ToDomainInstrumentSlice converts a slice of model instruments
func ToDomainInstrumentSlice(ms []models.CreditInstrument) []domain.CreditInstrument {
	ds := make([]domain.CreditInstrument, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstrument(m)
	}
	return ds
}
