package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/toranj-io/daftar/internal/cli"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/report"
)

// textFlags maps flag names to setters on the filter.
var textFlags = []struct {
	name string
	dest func(*model.ReportFilter) *string
}{
	{"code", func(f *model.ReportFilter) *string { return &f.SubProjectCode }},
	{"title", func(f *model.ReportFilter) *string { return &f.ContractTitle }},
	{"number", func(f *model.ReportFilter) *string { return &f.ContractNumber }},
	{"contractor", func(f *model.ReportFilter) *string { return &f.Contractor }},
	{"agent", func(f *model.ReportFilter) *string { return &f.Agent }},
	{"status", func(f *model.ReportFilter) *string { return &f.ContractStatus }},
	{"dept", func(f *model.ReportFilter) *string { return &f.ExecutiveDept }},
	{"referral", func(f *model.ReportFilter) *string { return &f.WorkReferralMethod }},
	{"credit-number", func(f *model.ReportFilter) *string { return &f.CreditNumber }},
	{"nature", func(f *model.ReportFilter) *string { return &f.Nature }},
}

// amountFlags maps flag name prefixes to amount ranges on the filter.
// Each entry contributes a -min and a -max flag.
var amountFlags = []struct {
	name string
	dest func(*model.ReportFilter) *model.AmountRange
}{
	{"total-contract", func(f *model.ReportFilter) *model.AmountRange { return &f.TotalContractAmount }},
	{"initial", func(f *model.ReportFilter) *model.AmountRange { return &f.InitialAmount }},
	{"year-credit", func(f *model.ReportFilter) *model.AmountRange { return &f.CurrentYearTotalCredit }},
	{"total-credit", func(f *model.ReportFilter) *model.AmountRange { return &f.TotalCreditFromStart }},
	{"total-invoices", func(f *model.ReportFilter) *model.AmountRange { return &f.TotalInvoicesAmount }},
	{"work-progress", func(f *model.ReportFilter) *model.AmountRange { return &f.TotalWorkProgress }},
	{"year-invoices", func(f *model.ReportFilter) *model.AmountRange { return &f.CurrentYearInvoicesAmount }},
	{"adjustment", func(f *model.ReportFilter) *model.AmountRange { return &f.AdjustmentAmount }},
	{"max-credit", func(f *model.ReportFilter) *model.AmountRange { return &f.MaxRequiredCredit }},
	{"deficit", func(f *model.ReportFilter) *model.AmountRange { return &f.CreditDeficit }},
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a filtered view of the ledger",
		Long: `Query the ledger with substring, amount-range and contract-date filters
and print the matching records. Date bounds are solar Hijri dates like
1403/01/01 and may use Persian digits.`,
		RunE: runReport,
	}

	for _, tf := range textFlags {
		cmd.Flags().String(tf.name, "", fmt.Sprintf("Substring filter on %s", tf.name))
	}
	for _, af := range amountFlags {
		cmd.Flags().String(af.name+"-min", "", "Lower bound (inclusive)")
		cmd.Flags().String(af.name+"-max", "", "Upper bound (inclusive)")
	}
	cmd.Flags().String("contract-date-from", "", "Earliest contract date (solar, e.g. 1403/01/01)")
	cmd.Flags().String("contract-date-to", "", "Latest contract date (solar)")
	cmd.Flags().String("csv", "", "Write the full report to this CSV file instead of the terminal")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	filter, err := buildFilter(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := report.NewService(store)
	rows, err := svc.GetReport(ctx, filter)
	if err != nil {
		return err
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := writeReportCSV(csvPath, rows); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d record(s) to %s", len(rows), csvPath)))
		return nil
	}

	printReport(rows)
	return nil
}

func buildFilter(cmd *cobra.Command) (model.ReportFilter, error) {
	var filter model.ReportFilter

	for _, tf := range textFlags {
		value, _ := cmd.Flags().GetString(tf.name)
		*tf.dest(&filter) = value
	}
	for _, af := range amountFlags {
		minVal, _ := cmd.Flags().GetString(af.name + "-min")
		maxVal, _ := cmd.Flags().GetString(af.name + "-max")

		minDec, err := parseAmountFlag(minVal, af.name+"-min")
		if err != nil {
			return filter, err
		}
		maxDec, err := parseAmountFlag(maxVal, af.name+"-max")
		if err != nil {
			return filter, err
		}
		*af.dest(&filter) = model.AmountRange{Min: minDec, Max: maxDec}
	}

	filter.ContractDateFrom, _ = cmd.Flags().GetString("contract-date-from")
	filter.ContractDateTo, _ = cmd.Flags().GetString("contract-date-to")

	return filter, nil
}

func printReport(rows []model.ReportRow) {
	if len(rows) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No records match the filter."))
		return
	}

	header := fmt.Sprintf("%-15s %-30s %-12s %15s %15s %15s",
		"Code", "Title", "Date", "Contract", "Max credit", "Deficit")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for i := range rows {
		r := &rows[i]
		title := r.ContractTitle
		if len([]rune(title)) > 30 {
			title = string([]rune(title)[:27]) + "..."
		}
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-15s %-30s %-12s %15s %15s %15s",
			r.SubProjectCode, title, r.ContractDate,
			formatAmount(r.TotalContractAmount),
			formatAmount(r.MaxRequiredCredit),
			formatAmount(r.CreditDeficitSupply))))
	}

	fmt.Println()
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d record(s)", len(rows))))
}

// reportColumns is the CSV header, covering every column of the report.
var reportColumns = []string{
	"SubProjectCode", "ContractTitle", "ContractNumber", "ContractDate",
	"Contractor", "Agent", "ContractStatus", "ExecutiveDept",
	"StartDate", "EndDate", "ExtendedEndDate", "WorkReferralMethod",
	"CreditNumber", "Nature",
	"TotalContractAmount", "InitialAmount", "CurrentYearTotalCredit",
	"TotalCreditFromStart", "TotalInvoicesAmount", "TotalWorkProgress",
	"CurrentYearInvoicesAmount", "AdjustmentAmount", "MaxRequiredCredit",
	"CreditDeficitSupply", "CreditDeficitCommitment",
}

// csvAmount leaves absent values empty rather than dashed so spreadsheets
// reading the file see blank cells.
func csvAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func writeReportCSV(path string, rows []model.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(reportColumns); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		record := []string{
			r.SubProjectCode, r.ContractTitle, r.ContractNumber, r.ContractDate,
			r.Contractor, r.Agent, r.ContractStatus, r.ExecutiveDept,
			r.StartDate, r.EndDate, r.ExtendedEndDate, r.WorkReferralMethod,
			r.CreditNumber, r.Nature,
			csvAmount(r.TotalContractAmount),
			csvAmount(r.InitialAmount),
			csvAmount(r.CurrentYearTotalCredit),
			csvAmount(r.TotalCreditFromStart),
			csvAmount(r.TotalInvoicesAmount),
			csvAmount(r.TotalWorkProgress),
			csvAmount(r.CurrentYearInvoicesAmount),
			csvAmount(r.AdjustmentAmount),
			csvAmount(r.MaxRequiredCredit),
			csvAmount(r.CreditDeficitSupply),
			csvAmount(r.CreditDeficitCommitment),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
