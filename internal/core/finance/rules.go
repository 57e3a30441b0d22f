// Package finance implements the credit-instrument financial engine: the
// per-type rule registry, amortization math, usage ledger replay, the monthly
// cash-flow projector and summary metrics.
//
// Everything in this package is a pure function over immutable inputs. Nothing
// here touches persistence, the clock, or any shared mutable state; the caller
// supplies every record and the anchor date.
package finance

import (
	"fmt"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// maxTermMonths is the sanity ceiling for amortizing terms (30 years).
const maxTermMonths = 360

// requiredField names a field that must be present for a given instrument type
// and knows how to check the candidate record for it.
type requiredField struct {
	name    string
	present func(domain.CreditInstrument) bool
}

// rulePredicate inspects a candidate instrument and returns a human-readable
// message when the rule is violated, or "" when it holds. Predicates must
// tolerate absent fields: required-field reporting is handled separately.
type rulePredicate func(domain.CreditInstrument) string

// Defaults is the partial instrument pre-populated when a type is selected in
// a create form. Pointer fields distinguish "set a default" from "leave the
// user's value alone"; ApplyDefaults merges, never replaces.
type Defaults struct {
	IsRevolving         *bool                    `json:"isRevolving,omitempty"`
	TermMonths          *int                     `json:"termMonths,omitempty"`
	PaymentFrequency    *domain.PaymentFrequency `json:"paymentFrequency,omitempty"`
	ResidualValue       *decimal.Decimal         `json:"residualValue,omitempty"`
	FinancingPercentage *decimal.Decimal         `json:"financingPercentage,omitempty"`
}

// ruleSet bundles everything the registry knows about one instrument type.
type ruleSet struct {
	required   []requiredField
	defaults   Defaults
	predicates []rulePredicate
}

// --- presence checks -------------------------------------------------------

func hasName(ci domain.CreditInstrument) bool      { return ci.Name != "" }
func hasLimit(ci domain.CreditInstrument) bool     { return ci.TotalLimit.IsPositive() }
func hasCurrency(ci domain.CreditInstrument) bool  { return ci.Currency != "" }
func hasStartDate(ci domain.CreditInstrument) bool { return !ci.StartDate.IsZero() }
func hasEndDate(ci domain.CreditInstrument) bool   { return !ci.EndDate.IsZero() }
func hasRate(ci domain.CreditInstrument) bool      { return ci.AnnualInterestRate != nil }
func hasTerm(ci domain.CreditInstrument) bool {
	return ci.TermMonths != nil && *ci.TermMonths > 0
}
func hasFrequency(ci domain.CreditInstrument) bool   { return ci.PaymentFrequency != nil }
func hasAssetValue(ci domain.CreditInstrument) bool  { return ci.AssetValue != nil }
func hasResidual(ci domain.CreditInstrument) bool    { return ci.ResidualValue != nil }
func hasFinancingPct(ci domain.CreditInstrument) bool {
	return ci.FinancingPercentage != nil
}
func hasOverdraftLimit(ci domain.CreditInstrument) bool { return ci.OverdraftLimit != nil }
func hasCollateralType(ci domain.CreditInstrument) bool { return ci.CollateralType != nil }
func hasCollateralDescription(ci domain.CreditInstrument) bool {
	return ci.CollateralDescription != nil && *ci.CollateralDescription != ""
}
func hasBeneficiary(ci domain.CreditInstrument) bool {
	return ci.Beneficiary != nil && *ci.Beneficiary != ""
}
func hasIssuingBank(ci domain.CreditInstrument) bool {
	return ci.IssuingBank != nil && *ci.IssuingBank != ""
}
func hasSupportingDocument(ci domain.CreditInstrument) bool {
	return ci.SupportingDocumentType != nil && *ci.SupportingDocumentType != ""
}

// baseRequired are the fields every instrument type needs, in declaration
// order. Per-type lists append to a copy of this slice.
var baseRequired = []requiredField{
	{"name", hasName},
	{"totalLimit", hasLimit},
	{"currency", hasCurrency},
	{"startDate", hasStartDate},
	{"endDate", hasEndDate},
}

// --- predicates ------------------------------------------------------------

func predicateAvailableWithinLimit(ci domain.CreditInstrument) string {
	if ci.AvailableAmount.GreaterThan(ci.TotalLimit) {
		return "available amount must not exceed total limit"
	}
	return ""
}

func predicateDateOrder(ci domain.CreditInstrument) string {
	if ci.StartDate.IsZero() || ci.EndDate.IsZero() {
		return ""
	}
	if ci.EndDate.Before(ci.StartDate) {
		return "end date must not be before start date"
	}
	return ""
}

func predicateRateRange(ci domain.CreditInstrument) string {
	if ci.AnnualInterestRate == nil {
		return ""
	}
	rate := *ci.AnnualInterestRate
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return "annual interest rate must be between 0 and 100"
	}
	return ""
}

func predicateTermCeiling(ci domain.CreditInstrument) string {
	if ci.TermMonths != nil && *ci.TermMonths > maxTermMonths {
		return fmt.Sprintf("term must not exceed %d months", maxTermMonths)
	}
	return ""
}

func predicateResidualBelowAsset(ci domain.CreditInstrument) string {
	if ci.AssetValue == nil || ci.ResidualValue == nil {
		return ""
	}
	if ci.ResidualValue.GreaterThanOrEqual(*ci.AssetValue) {
		return "residual value must be less than asset value"
	}
	return ""
}

func predicateFinancingPctRange(ci domain.CreditInstrument) string {
	if ci.FinancingPercentage == nil {
		return ""
	}
	pct := *ci.FinancingPercentage
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return "financing percentage must be between 0 and 100"
	}
	return ""
}

func predicateOverdraftCeiling(ci domain.CreditInstrument) string {
	if ci.OverdraftLimit == nil || !ci.TotalLimit.IsPositive() {
		return ""
	}
	if ci.OverdraftLimit.GreaterThan(ci.TotalLimit) {
		return "overdraft limit must not exceed the instrument total limit"
	}
	return ""
}

// basePredicates run for every instrument type, ahead of type-specific ones.
var basePredicates = []rulePredicate{
	predicateAvailableWithinLimit,
	predicateDateOrder,
	predicateRateRange,
}

// --- defaults helpers ------------------------------------------------------

func boolPtr(b bool) *bool                                    { return &b }
func intPtr(n int) *int                                       { return &n }
func freqPtr(f domain.PaymentFrequency) *domain.PaymentFrequency { return &f }
func decPtr(d decimal.Decimal) *decimal.Decimal               { return &d }

// --- the registry ----------------------------------------------------------

func withBase(extra []requiredField, predicates []rulePredicate) ([]requiredField, []rulePredicate) {
	req := make([]requiredField, 0, len(baseRequired)+len(extra))
	req = append(req, baseRequired...)
	req = append(req, extra...)
	preds := make([]rulePredicate, 0, len(basePredicates)+len(predicates))
	preds = append(preds, basePredicates...)
	preds = append(preds, predicates...)
	return req, preds
}

func newRuleSet(extra []requiredField, defaults Defaults, predicates ...rulePredicate) ruleSet {
	req, preds := withBase(extra, predicates)
	return ruleSet{required: req, defaults: defaults, predicates: preds}
}

// registry is the frozen per-type rule table. It is built once at process
// start and only ever read afterwards.
var registry = map[domain.InstrumentType]ruleSet{
	domain.RevolvingLine: newRuleSet(
		[]requiredField{{"annualInterestRate", hasRate}},
		Defaults{IsRevolving: boolPtr(true)},
	),
	domain.FixedTermLoan: newRuleSet(
		[]requiredField{
			{"annualInterestRate", hasRate},
			{"termMonths", hasTerm},
			{"paymentFrequency", hasFrequency},
		},
		Defaults{
			IsRevolving:      boolPtr(false),
			TermMonths:       intPtr(12),
			PaymentFrequency: freqPtr(domain.FrequencyMonthly),
		},
		predicateTermCeiling,
	),
	domain.OperatingLease: newRuleSet(
		[]requiredField{
			{"assetValue", hasAssetValue},
			{"residualValue", hasResidual},
			{"termMonths", hasTerm},
		},
		Defaults{
			IsRevolving:      boolPtr(false),
			PaymentFrequency: freqPtr(domain.FrequencyMonthly),
		},
		predicateTermCeiling,
		predicateResidualBelowAsset,
	),
	domain.FinanceLease: newRuleSet(
		[]requiredField{
			{"assetValue", hasAssetValue},
			{"termMonths", hasTerm},
		},
		Defaults{
			IsRevolving:      boolPtr(false),
			PaymentFrequency: freqPtr(domain.FrequencyMonthly),
			// Finance leases carry a nominal residual of one currency unit.
			ResidualValue: decPtr(decimal.NewFromInt(1)),
		},
		predicateTermCeiling,
		predicateResidualBelowAsset,
	),
	domain.Factoring: newRuleSet(
		[]requiredField{
			{"annualInterestRate", hasRate},
			{"financingPercentage", hasFinancingPct},
		},
		Defaults{
			IsRevolving:         boolPtr(true),
			FinancingPercentage: decPtr(decimal.NewFromInt(80)),
		},
		predicateFinancingPctRange,
	),
	domain.MortgageLoan: newRuleSet(
		[]requiredField{
			{"annualInterestRate", hasRate},
			{"termMonths", hasTerm},
			{"paymentFrequency", hasFrequency},
			{"collateralType", hasCollateralType},
			{"collateralDescription", hasCollateralDescription},
		},
		Defaults{
			IsRevolving:      boolPtr(false),
			TermMonths:       intPtr(240),
			PaymentFrequency: freqPtr(domain.FrequencyMonthly),
		},
		predicateTermCeiling,
	),
	domain.VehicleLoan: newRuleSet(
		[]requiredField{
			{"annualInterestRate", hasRate},
			{"termMonths", hasTerm},
			{"paymentFrequency", hasFrequency},
			{"collateralType", hasCollateralType},
			{"collateralDescription", hasCollateralDescription},
		},
		Defaults{
			IsRevolving:      boolPtr(false),
			TermMonths:       intPtr(48),
			PaymentFrequency: freqPtr(domain.FrequencyMonthly),
		},
		predicateTermCeiling,
	),
	domain.BankOverdraft: newRuleSet(
		[]requiredField{
			{"annualInterestRate", hasRate},
			{"overdraftLimit", hasOverdraftLimit},
		},
		Defaults{IsRevolving: boolPtr(true)},
		predicateOverdraftCeiling,
	),
	domain.LetterOfCredit: newRuleSet(
		[]requiredField{
			{"beneficiary", hasBeneficiary},
			{"issuingBank", hasIssuingBank},
			{"supportingDocumentType", hasSupportingDocument},
		},
		Defaults{IsRevolving: boolPtr(false)},
	),
}

// Validate checks a candidate instrument against the rules for its type and
// returns the ordered list of error messages, empty when valid.
//
// The function fails closed: a missing or unrecognized instrument type yields
// a single error and no field checks run. Otherwise the result unions the
// required-field errors (in required-field declaration order) with the
// type-specific predicate messages (in predicate declaration order), so the
// output is stable for identical inputs.
func Validate(ci domain.CreditInstrument) []string {
	if ci.InstrumentType == "" {
		return []string{"instrumentType is required"}
	}
	rules, ok := registry[ci.InstrumentType]
	if !ok {
		return []string{fmt.Sprintf("unknown instrument type %q", ci.InstrumentType)}
	}

	var errs []string
	for _, field := range rules.required {
		if !field.present(ci) {
			errs = append(errs, fmt.Sprintf("%s is required for this instrument type", field.name))
		}
	}
	for _, predicate := range rules.predicates {
		if msg := predicate(ci); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// RequiredFields returns the ordered field names the given type requires, or
// nil for an unknown type.
func RequiredFields(t domain.InstrumentType) []string {
	rules, ok := registry[t]
	if !ok {
		return nil
	}
	names := make([]string, len(rules.required))
	for i, field := range rules.required {
		names[i] = field.name
	}
	return names
}

// DefaultsFor returns the default values to pre-populate when the given type
// is selected. The second return is false for an unknown type.
func DefaultsFor(t domain.InstrumentType) (Defaults, bool) {
	rules, ok := registry[t]
	if !ok {
		return Defaults{}, false
	}
	return rules.defaults, true
}

// ApplyDefaults merges the type defaults into an instrument, filling only
// fields the user has not already set.
func ApplyDefaults(ci domain.CreditInstrument, d Defaults) domain.CreditInstrument {
	if d.IsRevolving != nil {
		ci.IsRevolving = *d.IsRevolving
	}
	if d.TermMonths != nil && ci.TermMonths == nil {
		v := *d.TermMonths
		ci.TermMonths = &v
	}
	if d.PaymentFrequency != nil && ci.PaymentFrequency == nil {
		v := *d.PaymentFrequency
		ci.PaymentFrequency = &v
	}
	if d.ResidualValue != nil && ci.ResidualValue == nil {
		v := *d.ResidualValue
		ci.ResidualValue = &v
	}
	if d.FinancingPercentage != nil && ci.FinancingPercentage == nil {
		v := *d.FinancingPercentage
		ci.FinancingPercentage = &v
	}
	return ci
}
