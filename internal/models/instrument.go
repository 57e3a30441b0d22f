package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditInstrument is the persistence shape of a financing facility.
// Nullable columns map to pointer fields; pgx handles the conversion.
type CreditInstrument struct {
	InstrumentID    int64           `db:"instrument_id"`
	WorkspaceID     string          `db:"workspace_id"`
	Name            string          `db:"name"`
	InstrumentType  string          `db:"instrument_type"`
	TotalLimit      decimal.Decimal `db:"total_limit"`
	AvailableAmount decimal.Decimal `db:"available_amount"`
	Currency        string          `db:"currency"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         time.Time       `db:"end_date"`

	AnnualInterestRate *decimal.Decimal `db:"annual_interest_rate"`
	OriginationCharge  *decimal.Decimal `db:"origination_charge"`
	TermMonths         *int             `db:"term_months"`
	PaymentFrequency   *string          `db:"payment_frequency"`

	AssetValue          *decimal.Decimal `db:"asset_value"`
	ResidualValue       *decimal.Decimal `db:"residual_value"`
	FinancingPercentage *decimal.Decimal `db:"financing_percentage"`
	OverdraftLimit      *decimal.Decimal `db:"overdraft_limit"`

	CollateralType        *string `db:"collateral_type"`
	CollateralDescription *string `db:"collateral_description"`

	Beneficiary            *string `db:"beneficiary"`
	IssuingBank            *string `db:"issuing_bank"`
	SupportingDocumentType *string `db:"supporting_document_type"`

	IsRevolving bool `db:"is_revolving"`
	AuditFields
}
