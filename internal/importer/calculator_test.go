package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toranj-io/daftar/internal/model"
)

func amt(s string) *decimal.Decimal {
	return model.Dec(decimal.RequireFromString(s))
}

func TestCalculateDerivedFields(t *testing.T) {
	records := []model.BudgetRecord{{
		SubProjectCode:       "SP-1",
		TotalContractAmount:  amt("1000"),
		TotalInvoicesAmount:  amt("300"),
		TotalWorkProgress:    amt("250"),
		TotalCreditFromStart: amt("400"),
	}}

	Calculate(records)

	r := records[0]
	require.NotNil(t, r.AdjustmentAmount)
	require.NotNil(t, r.MaxRequiredCredit)
	require.NotNil(t, r.CreditDeficit)

	// 300 - 250
	assert.True(t, r.AdjustmentAmount.Equal(decimal.RequireFromString("50")),
		"adjustment = %s", r.AdjustmentAmount)
	// 1000 * 1.1 + 50
	assert.True(t, r.MaxRequiredCredit.Equal(decimal.RequireFromString("1150")),
		"max required = %s", r.MaxRequiredCredit)
	// 1150 - 400
	assert.True(t, r.CreditDeficit.Equal(decimal.RequireFromString("750")),
		"deficit = %s", r.CreditDeficit)
}

func TestCalculateMissingInputsCountAsZero(t *testing.T) {
	records := []model.BudgetRecord{{SubProjectCode: "SP-1"}}

	Calculate(records)

	r := records[0]
	require.NotNil(t, r.AdjustmentAmount)
	assert.True(t, r.AdjustmentAmount.IsZero())
	require.NotNil(t, r.MaxRequiredCredit)
	assert.True(t, r.MaxRequiredCredit.IsZero())
	require.NotNil(t, r.CreditDeficit)
	assert.True(t, r.CreditDeficit.IsZero())
}

func TestCalculateExactDecimals(t *testing.T) {
	// 10% of 333 must come out exact, not as a float approximation.
	records := []model.BudgetRecord{{
		SubProjectCode:      "SP-1",
		TotalContractAmount: amt("333"),
	}}

	Calculate(records)

	assert.Equal(t, "366.3", records[0].MaxRequiredCredit.String())
}

func TestCalculateIdempotent(t *testing.T) {
	records := []model.BudgetRecord{{
		SubProjectCode:       "SP-1",
		TotalContractAmount:  amt("1000"),
		TotalInvoicesAmount:  amt("300"),
		TotalWorkProgress:    amt("250"),
		TotalCreditFromStart: amt("400"),
	}}

	Calculate(records)
	first := records[0]
	Calculate(records)
	second := records[0]

	assert.True(t, first.AdjustmentAmount.Equal(*second.AdjustmentAmount))
	assert.True(t, first.MaxRequiredCredit.Equal(*second.MaxRequiredCredit))
	assert.True(t, first.CreditDeficit.Equal(*second.CreditDeficit))
}

func TestCalculateOverwritesStaleDerived(t *testing.T) {
	records := []model.BudgetRecord{{
		SubProjectCode:      "SP-1",
		TotalContractAmount: amt("100"),
		AdjustmentAmount:    amt("999"),
		MaxRequiredCredit:   amt("999"),
		CreditDeficit:       amt("999"),
	}}

	Calculate(records)

	assert.True(t, records[0].AdjustmentAmount.IsZero())
	assert.Equal(t, "110", records[0].MaxRequiredCredit.String())
	assert.Equal(t, "110", records[0].CreditDeficit.String())
}
