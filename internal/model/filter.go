package model

import "github.com/shopspring/decimal"

// AmountRange bounds a monetary field from below and/or above. Nil means
// the bound is not requested.
type AmountRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// IsZero reports whether neither bound is set.
func (r AmountRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// ReportFilter describes one report query. Text fields are substring
// predicates; amount ranges are inclusive. ContractDateFrom/To are Jalali
// date strings (possibly in Persian digits) and are evaluated in memory
// after the store query, because the stored contract date is a free-form
// string.
type ReportFilter struct {
	SubProjectCode     string
	ContractTitle      string
	ContractNumber     string
	Contractor         string
	Agent              string
	ContractStatus     string
	ExecutiveDept      string
	WorkReferralMethod string
	CreditNumber       string
	Nature             string

	TotalContractAmount       AmountRange
	InitialAmount             AmountRange
	CurrentYearTotalCredit    AmountRange
	TotalCreditFromStart      AmountRange
	TotalInvoicesAmount       AmountRange
	TotalWorkProgress         AmountRange
	CurrentYearInvoicesAmount AmountRange
	AdjustmentAmount          AmountRange
	MaxRequiredCredit         AmountRange
	CreditDeficit             AmountRange

	ContractDateFrom string
	ContractDateTo   string
}

// ReportRow is the report projection of a ledger row. The single stored
// CreditDeficit value is surfaced under both deficit headings the report
// displays.
type ReportRow struct {
	SubProjectCode     string
	ContractTitle      string
	ContractNumber     string
	ContractDate       string
	Contractor         string
	Agent              string
	ContractStatus     string
	ExecutiveDept      string
	StartDate          string
	EndDate            string
	ExtendedEndDate    string
	WorkReferralMethod string
	CreditNumber       string
	Nature             string

	TotalContractAmount       *decimal.Decimal
	InitialAmount             *decimal.Decimal
	CurrentYearTotalCredit    *decimal.Decimal
	TotalCreditFromStart      *decimal.Decimal
	TotalInvoicesAmount       *decimal.Decimal
	TotalWorkProgress         *decimal.Decimal
	CurrentYearInvoicesAmount *decimal.Decimal

	AdjustmentAmount        *decimal.Decimal
	MaxRequiredCredit       *decimal.Decimal
	CreditDeficitSupply     *decimal.Decimal
	CreditDeficitCommitment *decimal.Decimal
}
