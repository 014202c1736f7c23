package importer

import (
	"github.com/shopspring/decimal"

	"github.com/toranj-io/daftar/internal/model"
)

// maxCreditFactor is the contractual 10% overrun allowance applied when
// computing the maximum credit a contract may require.
var maxCreditFactor = decimal.RequireFromString("1.1")

// Calculate recomputes the derived financial fields of every record in
// place. Missing base values count as zero. The computation is pure and
// idempotent, and runs on every import pass; base fields may have changed
// since the last one.
func Calculate(records []model.BudgetRecord) {
	for i := range records {
		r := &records[i]

		adjustment := orZero(r.TotalInvoicesAmount).Sub(orZero(r.TotalWorkProgress))
		maxRequired := orZero(r.TotalContractAmount).Mul(maxCreditFactor).Add(adjustment)
		deficit := maxRequired.Sub(orZero(r.TotalCreditFromStart))

		r.AdjustmentAmount = model.Dec(adjustment)
		r.MaxRequiredCredit = model.Dec(maxRequired)
		r.CreditDeficit = model.Dec(deficit)
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
