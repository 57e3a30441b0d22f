package dto

import (
	"time"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreateInstrumentRequest defines the data needed to create a credit
// instrument. Type-dependent attributes are pointers; the rule registry
// decides which of them the chosen type requires.
type CreateInstrumentRequest struct {
	Name            string                `json:"name" binding:"required"`
	InstrumentType  domain.InstrumentType `json:"instrumentType" binding:"required,instrumenttype"`
	TotalLimit      decimal.Decimal       `json:"totalLimit" binding:"required"`
	AvailableAmount *decimal.Decimal      `json:"availableAmount"` // defaults to TotalLimit
	Currency        string                `json:"currency" binding:"required,len=3"`
	StartDate       string                `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string                `json:"endDate" binding:"required,datetime=2006-01-02"`

	AnnualInterestRate *decimal.Decimal         `json:"annualInterestRate"`
	OriginationCharge  *decimal.Decimal         `json:"originationCharge"`
	TermMonths         *int                     `json:"termMonths"`
	PaymentFrequency   *domain.PaymentFrequency `json:"paymentFrequency" binding:"omitempty,oneof=MONTHLY BIMONTHLY QUARTERLY SEMIANNUAL ANNUAL"`

	AssetValue          *decimal.Decimal `json:"assetValue"`
	ResidualValue       *decimal.Decimal `json:"residualValue"`
	FinancingPercentage *decimal.Decimal `json:"financingPercentage"`
	OverdraftLimit      *decimal.Decimal `json:"overdraftLimit"`

	CollateralType        *domain.CollateralType `json:"collateralType" binding:"omitempty,oneof=REAL_ESTATE VEHICLE PLEDGE GUARANTEE"`
	CollateralDescription *string                `json:"collateralDescription"`

	Beneficiary            *string `json:"beneficiary"`
	IssuingBank            *string `json:"issuingBank"`
	SupportingDocumentType *string `json:"supportingDocumentType"`

	IsRevolving *bool `json:"isRevolving"` // nil: take the type default
}

// UpdateInstrumentRequest carries the same shape as create; updates re-run the
// full rule registry against the merged record.
type UpdateInstrumentRequest = CreateInstrumentRequest

// ToDomainInstrument converts the request into a candidate domain instrument.
// Date strings have already passed binding validation.
func (r CreateInstrumentRequest) ToDomainInstrument(workspaceID string) domain.CreditInstrument {
	startDate, _ := time.Parse(dateLayout, r.StartDate)
	endDate, _ := time.Parse(dateLayout, r.EndDate)

	available := r.TotalLimit
	if r.AvailableAmount != nil {
		available = *r.AvailableAmount
	}

	ci := domain.CreditInstrument{
		WorkspaceID:            workspaceID,
		Name:                   r.Name,
		InstrumentType:         r.InstrumentType,
		TotalLimit:             r.TotalLimit,
		AvailableAmount:        available,
		Currency:               r.Currency,
		StartDate:              startDate,
		EndDate:                endDate,
		AnnualInterestRate:     r.AnnualInterestRate,
		OriginationCharge:      r.OriginationCharge,
		TermMonths:             r.TermMonths,
		PaymentFrequency:       r.PaymentFrequency,
		AssetValue:             r.AssetValue,
		ResidualValue:          r.ResidualValue,
		FinancingPercentage:    r.FinancingPercentage,
		OverdraftLimit:         r.OverdraftLimit,
		CollateralType:         r.CollateralType,
		CollateralDescription:  r.CollateralDescription,
		Beneficiary:            r.Beneficiary,
		IssuingBank:            r.IssuingBank,
		SupportingDocumentType: r.SupportingDocumentType,
	}
	if r.IsRevolving != nil {
		ci.IsRevolving = *r.IsRevolving
	}
	return ci
}

// InstrumentResponse mirrors domain.CreditInstrument for API output.
type InstrumentResponse struct {
	InstrumentID    int64                 `json:"instrumentID"`
	WorkspaceID     string                `json:"workspaceID"`
	Name            string                `json:"name"`
	InstrumentType  domain.InstrumentType `json:"instrumentType"`
	TotalLimit      decimal.Decimal       `json:"totalLimit"`
	AvailableAmount decimal.Decimal       `json:"availableAmount"`
	Currency        string                `json:"currency"`
	StartDate       string                `json:"startDate"`
	EndDate         string                `json:"endDate"`

	AnnualInterestRate *decimal.Decimal         `json:"annualInterestRate,omitempty"`
	OriginationCharge  *decimal.Decimal         `json:"originationCharge,omitempty"`
	TermMonths         *int                     `json:"termMonths,omitempty"`
	PaymentFrequency   *domain.PaymentFrequency `json:"paymentFrequency,omitempty"`

	AssetValue          *decimal.Decimal `json:"assetValue,omitempty"`
	ResidualValue       *decimal.Decimal `json:"residualValue,omitempty"`
	FinancingPercentage *decimal.Decimal `json:"financingPercentage,omitempty"`
	OverdraftLimit      *decimal.Decimal `json:"overdraftLimit,omitempty"`

	CollateralType        *domain.CollateralType `json:"collateralType,omitempty"`
	CollateralDescription *string                `json:"collateralDescription,omitempty"`

	Beneficiary            *string `json:"beneficiary,omitempty"`
	IssuingBank            *string `json:"issuingBank,omitempty"`
	SupportingDocumentType *string `json:"supportingDocumentType,omitempty"`

	IsRevolving   bool      `json:"isRevolving"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToInstrumentResponse converts a domain instrument to its response DTO.
func ToInstrumentResponse(ci *domain.CreditInstrument) InstrumentResponse {
	return InstrumentResponse{
		InstrumentID:           ci.InstrumentID,
		WorkspaceID:            ci.WorkspaceID,
		Name:                   ci.Name,
		InstrumentType:         ci.InstrumentType,
		TotalLimit:             ci.TotalLimit,
		AvailableAmount:        ci.AvailableAmount,
		Currency:               ci.Currency,
		StartDate:              ci.StartDate.Format(dateLayout),
		EndDate:                ci.EndDate.Format(dateLayout),
		AnnualInterestRate:     ci.AnnualInterestRate,
		OriginationCharge:      ci.OriginationCharge,
		TermMonths:             ci.TermMonths,
		PaymentFrequency:       ci.PaymentFrequency,
		AssetValue:             ci.AssetValue,
		ResidualValue:          ci.ResidualValue,
		FinancingPercentage:    ci.FinancingPercentage,
		OverdraftLimit:         ci.OverdraftLimit,
		CollateralType:         ci.CollateralType,
		CollateralDescription:  ci.CollateralDescription,
		Beneficiary:            ci.Beneficiary,
		IssuingBank:            ci.IssuingBank,
		SupportingDocumentType: ci.SupportingDocumentType,
		IsRevolving:            ci.IsRevolving,
		CreatedAt:              ci.CreatedAt,
		LastUpdatedAt:          ci.LastUpdatedAt,
	}
}

// ToListInstrumentResponse converts a slice of domain instruments.
func ToListInstrumentResponse(instruments []domain.CreditInstrument) []InstrumentResponse {
	res := make([]InstrumentResponse, len(instruments))
	for i := range instruments {
		res[i] = ToInstrumentResponse(&instruments[i])
	}
	return res
}

// ValidationFailureResponse carries the ordered rule-registry messages back to
// the form.
type ValidationFailureResponse struct {
	Errors []string `json:"errors"`
}
