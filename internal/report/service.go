// Package report builds filtered ledger reports. Text and amount
// predicates are pushed down to the store; the contract-date range is
// applied here because stored dates are free-form strings interpreted on
// the solar Hijri calendar.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/toranj-io/daftar/internal/jalali"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/service"
)

// Service answers report queries against the ledger.
type Service struct {
	store service.Storage
}

// NewService creates a report service over the given store.
func NewService(store service.Storage) *Service {
	return &Service{store: store}
}

// GetReport returns the ledger rows matching the filter, ordered by
// sub-project code.
// An invalid ContractDateFrom/To value is an error; a record whose stored
// contract date cannot be read as a solar date is excluded only when a
// date bound is actually set.
func (s *Service) GetReport(ctx context.Context, filter model.ReportFilter) ([]model.ReportRow, error) {
	var from, to time.Time
	var err error

	hasFrom := filter.ContractDateFrom != ""
	hasTo := filter.ContractDateTo != ""
	if hasFrom {
		if from, err = jalali.Parse(jalali.NormalizeDigits(filter.ContractDateFrom)); err != nil {
			return nil, fmt.Errorf("invalid contract date lower bound %q: %w", filter.ContractDateFrom, err)
		}
	}
	if hasTo {
		if to, err = jalali.Parse(jalali.NormalizeDigits(filter.ContractDateTo)); err != nil {
			return nil, fmt.Errorf("invalid contract date upper bound %q: %w", filter.ContractDateTo, err)
		}
	}

	records, err := s.store.QueryRecords(ctx, buildQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	rows := make([]model.ReportRow, 0, len(records))
	for i := range records {
		r := &records[i]
		if hasFrom || hasTo {
			contractDate, err := jalali.Parse(jalali.NormalizeDigits(r.ContractDate))
			if err != nil {
				continue
			}
			if hasFrom && contractDate.Before(from) {
				continue
			}
			if hasTo && contractDate.After(to) {
				continue
			}
		}
		rows = append(rows, toRow(r))
	}

	return rows, nil
}

// buildQuery translates the store-expressible predicates of a filter into
// a record query. Empty text fields and unbounded ranges contribute
// nothing.
func buildQuery(filter model.ReportFilter) service.RecordQuery {
	var q service.RecordQuery

	text := []struct {
		field string
		value string
	}{
		{"SubProjectCode", filter.SubProjectCode},
		{"ContractTitle", filter.ContractTitle},
		{"ContractNumber", filter.ContractNumber},
		{"Contractor", filter.Contractor},
		{"Agent", filter.Agent},
		{"ContractStatus", filter.ContractStatus},
		{"ExecutiveDept", filter.ExecutiveDept},
		{"WorkReferralMethod", filter.WorkReferralMethod},
		{"CreditNumber", filter.CreditNumber},
		{"Nature", filter.Nature},
	}
	for _, t := range text {
		if t.value != "" {
			q.Text = append(q.Text, service.TextFilter{Field: t.field, Value: t.value})
		}
	}

	amounts := []struct {
		field string
		rng   model.AmountRange
	}{
		{"TotalContractAmount", filter.TotalContractAmount},
		{"InitialAmount", filter.InitialAmount},
		{"CurrentYearTotalCredit", filter.CurrentYearTotalCredit},
		{"TotalCreditFromStart", filter.TotalCreditFromStart},
		{"TotalInvoicesAmount", filter.TotalInvoicesAmount},
		{"TotalWorkProgress", filter.TotalWorkProgress},
		{"CurrentYearInvoicesAmount", filter.CurrentYearInvoicesAmount},
		{"AdjustmentAmount", filter.AdjustmentAmount},
		{"MaxRequiredCredit", filter.MaxRequiredCredit},
		{"CreditDeficit", filter.CreditDeficit},
	}
	for _, a := range amounts {
		if !a.rng.IsZero() {
			q.Amounts = append(q.Amounts, service.AmountFilter{
				Field: a.field,
				Min:   a.rng.Min,
				Max:   a.rng.Max,
			})
		}
	}

	return q
}

// toRow projects a ledger record into its report shape. The stored
// CreditDeficit value feeds both deficit columns the report shows.
func toRow(r *model.BudgetRecord) model.ReportRow {
	return model.ReportRow{
		SubProjectCode:     r.SubProjectCode,
		ContractTitle:      r.ContractTitle,
		ContractNumber:     r.ContractNumber,
		ContractDate:       r.ContractDate,
		Contractor:         r.Contractor,
		Agent:              r.Agent,
		ContractStatus:     r.ContractStatus,
		ExecutiveDept:      r.ExecutiveDept,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		ExtendedEndDate:    r.ExtendedEndDate,
		WorkReferralMethod: r.WorkReferralMethod,
		CreditNumber:       r.CreditNumber,
		Nature:             r.Nature,

		TotalContractAmount:       r.TotalContractAmount,
		InitialAmount:             r.InitialAmount,
		CurrentYearTotalCredit:    r.CurrentYearTotalCredit,
		TotalCreditFromStart:      r.TotalCreditFromStart,
		TotalInvoicesAmount:       r.TotalInvoicesAmount,
		TotalWorkProgress:         r.TotalWorkProgress,
		CurrentYearInvoicesAmount: r.CurrentYearInvoicesAmount,

		AdjustmentAmount:        r.AdjustmentAmount,
		MaxRequiredCredit:       r.MaxRequiredCredit,
		CreditDeficitSupply:     r.CreditDeficit,
		CreditDeficitCommitment: r.CreditDeficit,
	}
}
