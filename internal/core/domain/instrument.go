package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentType is the closed set of financing facility kinds the engine knows about.
type InstrumentType string

const (
	RevolvingLine  InstrumentType = "REVOLVING_LINE"
	FixedTermLoan  InstrumentType = "FIXED_TERM_LOAN"
	OperatingLease InstrumentType = "OPERATING_LEASE"
	FinanceLease   InstrumentType = "FINANCE_LEASE"
	Factoring      InstrumentType = "FACTORING"
	MortgageLoan   InstrumentType = "MORTGAGE_LOAN"
	VehicleLoan    InstrumentType = "VEHICLE_LOAN"
	BankOverdraft  InstrumentType = "BANK_OVERDRAFT"
	LetterOfCredit InstrumentType = "LETTER_OF_CREDIT"
)

// AllInstrumentTypes lists every known instrument type in declaration order.
var AllInstrumentTypes = []InstrumentType{
	RevolvingLine,
	FixedTermLoan,
	OperatingLease,
	FinanceLease,
	Factoring,
	MortgageLoan,
	VehicleLoan,
	BankOverdraft,
	LetterOfCredit,
}

// IsValid reports whether t is one of the known instrument types.
func (t InstrumentType) IsValid() bool {
	for _, known := range AllInstrumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTermBearing reports whether the type amortizes over a fixed term.
func (t InstrumentType) IsTermBearing() bool {
	switch t {
	case FixedTermLoan, MortgageLoan, VehicleLoan, OperatingLease, FinanceLease:
		return true
	}
	return false
}

// PaymentFrequency is the installment cadence for term-bearing instruments.
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "MONTHLY"
	FrequencyBimonthly  PaymentFrequency = "BIMONTHLY"
	FrequencyQuarterly  PaymentFrequency = "QUARTERLY"
	FrequencySemiannual PaymentFrequency = "SEMIANNUAL"
	FrequencyAnnual     PaymentFrequency = "ANNUAL"
)

// CollateralType classifies the security backing a collateralized instrument.
type CollateralType string

const (
	CollateralRealEstate CollateralType = "REAL_ESTATE"
	CollateralVehicle    CollateralType = "VEHICLE"
	CollateralPledge     CollateralType = "PLEDGE"
	CollateralGuarantee  CollateralType = "GUARANTEE"
)

// CreditInstrument represents one financing facility.
//
// Optional attributes are pointers so validation can distinguish "absent" from
// a legitimate zero value. Which attributes are required depends entirely on
// InstrumentType; the rule registry in internal/core/finance owns that mapping.
type CreditInstrument struct {
	InstrumentID   int64           `json:"instrumentID"` // Primary Key
	WorkspaceID    string          `json:"workspaceID"`  // FK -> workspaces.workspace_id
	Name           string          `json:"name"`
	InstrumentType InstrumentType  `json:"instrumentType"`
	TotalLimit     decimal.Decimal `json:"totalLimit"`
	// AvailableAmount must never exceed TotalLimit.
	AvailableAmount decimal.Decimal `json:"availableAmount"`
	Currency        string          `json:"currency"` // ISO-like code, a label only; never converted
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"` // end >= start

	// Pricing
	AnnualInterestRate *decimal.Decimal `json:"annualInterestRate,omitempty"` // percentage
	OriginationCharge  *decimal.Decimal `json:"originationCharge,omitempty"`  // recognized in StartDate's month

	// Term-bearing variants
	TermMonths       *int              `json:"termMonths,omitempty"`
	PaymentFrequency *PaymentFrequency `json:"paymentFrequency,omitempty"`

	// Leasing variants
	AssetValue    *decimal.Decimal `json:"assetValue,omitempty"`
	ResidualValue *decimal.Decimal `json:"residualValue,omitempty"` // must be < AssetValue

	// Factoring
	FinancingPercentage *decimal.Decimal `json:"financingPercentage,omitempty"` // 0-100

	// Overdraft
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"`

	// Collateral (mortgage / vehicle variants, required together)
	CollateralType        *CollateralType `json:"collateralType,omitempty"`
	CollateralDescription *string         `json:"collateralDescription,omitempty"`

	// Letter of credit (required together)
	Beneficiary            *string `json:"beneficiary,omitempty"`
	IssuingBank            *string `json:"issuingBank,omitempty"`
	SupportingDocumentType *string `json:"supportingDocumentType,omitempty"`

	// IsRevolving defaults per type but is independently settable.
	IsRevolving bool `json:"isRevolving"`

	AuditFields
}

// AnnualRate returns the annual interest rate or zero when unset.
func (ci CreditInstrument) AnnualRate() decimal.Decimal {
	if ci.AnnualInterestRate == nil {
		return decimal.Zero
	}
	return *ci.AnnualInterestRate
}

// Term returns the term in months or zero when unset.
func (ci CreditInstrument) Term() int {
	if ci.TermMonths == nil {
		return 0
	}
	return *ci.TermMonths
}

// DrawnPrincipalSeed derives the initial drawn balance implied by the persisted
// limits: max(0, totalLimit - availableAmount). Used to seed projections when
// no transaction history precedes the window.
func (ci CreditInstrument) DrawnPrincipalSeed() decimal.Decimal {
	seed := ci.TotalLimit.Sub(ci.AvailableAmount)
	if seed.IsNegative() {
		return decimal.Zero
	}
	return seed
}
