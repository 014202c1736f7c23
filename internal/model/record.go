// Package model defines the core domain types for the budget ledger.
package model

import (
	"github.com/shopspring/decimal"
)

// BudgetRecord is one contract/sub-project entry in the ledger, keyed by
// SubProjectCode. The code is the natural key and never changes once the
// record exists; every other field is replaced wholesale on re-import.
//
// Business dates (ContractDate, StartDate, EndDate, ExtendedEndDate) are
// stored as opaque strings, normally Gregorian yyyy-MM-dd produced by the
// spreadsheet reader. They are never stored as native time values; Jalali
// conversion happens only at the import and report boundaries.
//
// Monetary fields are nil when the source cell was absent or unparsable.
// Nil and zero are distinct: the reconciliation merge and the validator's
// negative-amount check both rely on the difference.
type BudgetRecord struct {
	SubProjectCode string

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
	CurrentYearCashCredit     *decimal.Decimal
	CurrentYearNonCashCredit  *decimal.Decimal
	CurrentYearTotalCredit    *decimal.Decimal
	TotalCreditFromStart      *decimal.Decimal
	TotalInvoicesAmount       *decimal.Decimal
	TotalWorkProgress         *decimal.Decimal
	CurrentYearInvoicesAmount *decimal.Decimal

	// Derived fields, recomputed on every import pass. Never user-edited.
	AdjustmentAmount  *decimal.Decimal
	MaxRequiredCredit *decimal.Decimal
	CreditDeficit     *decimal.Decimal
}

// MonetaryField pairs a field name with its value for validation and
// display purposes.
type MonetaryField struct {
	Name  string
	Value *decimal.Decimal
}

// CheckedAmounts returns the monetary fields the validator screens for
// negative values, in a stable order. TotalWorkProgress is intentionally
// not in this list: it can carry a progress percentage rather than an
// amount and the original system never rejected it.
func (r *BudgetRecord) CheckedAmounts() []MonetaryField {
	return []MonetaryField{
		{"TotalContractAmount", r.TotalContractAmount},
		{"InitialAmount", r.InitialAmount},
		{"CurrentYearCashCredit", r.CurrentYearCashCredit},
		{"CurrentYearNonCashCredit", r.CurrentYearNonCashCredit},
		{"CurrentYearTotalCredit", r.CurrentYearTotalCredit},
		{"TotalCreditFromStart", r.TotalCreditFromStart},
		{"TotalInvoicesAmount", r.TotalInvoicesAmount},
		{"CurrentYearInvoicesAmount", r.CurrentYearInvoicesAmount},
	}
}

// HasNegativeAmount reports whether any screened monetary field is
// negative. Absent values are not negative.
func (r *BudgetRecord) HasNegativeAmount() bool {
	for _, f := range r.CheckedAmounts() {
		if f.Value != nil && f.Value.IsNegative() {
			return true
		}
	}
	return false
}

// CopyFrom assigns every mutable field of src onto r, field by field,
// leaving SubProjectCode untouched. This is the reconciliation merge: the
// stored row keeps its identity while taking all incoming values,
// including nils that clear previously-set amounts.
func (r *BudgetRecord) CopyFrom(src *BudgetRecord) {
	r.ContractTitle = src.ContractTitle
	r.ContractNumber = src.ContractNumber
	r.ContractDate = src.ContractDate
	r.Contractor = src.Contractor
	r.Agent = src.Agent
	r.ContractStatus = src.ContractStatus
	r.ExecutiveDept = src.ExecutiveDept
	r.StartDate = src.StartDate
	r.EndDate = src.EndDate
	r.ExtendedEndDate = src.ExtendedEndDate
	r.WorkReferralMethod = src.WorkReferralMethod
	r.CreditNumber = src.CreditNumber
	r.Nature = src.Nature

	r.TotalContractAmount = cloneDecimal(src.TotalContractAmount)
	r.InitialAmount = cloneDecimal(src.InitialAmount)
	r.CurrentYearCashCredit = cloneDecimal(src.CurrentYearCashCredit)
	r.CurrentYearNonCashCredit = cloneDecimal(src.CurrentYearNonCashCredit)
	r.CurrentYearTotalCredit = cloneDecimal(src.CurrentYearTotalCredit)
	r.TotalCreditFromStart = cloneDecimal(src.TotalCreditFromStart)
	r.TotalInvoicesAmount = cloneDecimal(src.TotalInvoicesAmount)
	r.TotalWorkProgress = cloneDecimal(src.TotalWorkProgress)
	r.CurrentYearInvoicesAmount = cloneDecimal(src.CurrentYearInvoicesAmount)

	r.AdjustmentAmount = cloneDecimal(src.AdjustmentAmount)
	r.MaxRequiredCredit = cloneDecimal(src.MaxRequiredCredit)
	r.CreditDeficit = cloneDecimal(src.CreditDeficit)
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Dec is a convenience constructor for a decimal pointer.
func Dec(d decimal.Decimal) *decimal.Decimal {
	return &d
}
