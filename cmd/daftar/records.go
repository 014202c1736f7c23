package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toranj-io/daftar/internal/cli"
	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/model"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and manage ledger records",
	}

	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsGetCmd())
	cmd.AddCommand(recordsDeleteCmd())

	return cmd
}

func recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all records in the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			records, err := store.GetAllRecords(ctx)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("The ledger is empty."))
				return nil
			}

			header := fmt.Sprintf("%-15s %-40s %15s", "Code", "Title", "Contract")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for i := range records {
				r := &records[i]
				fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-15s %-40s %15s",
					r.SubProjectCode, r.ContractTitle, formatAmount(r.TotalContractAmount))))
			}
			fmt.Println()
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d record(s)", len(records))))
			return nil
		},
	}
}

func recordsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show one record in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			record, err := store.GetRecordByCode(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no record with code %q", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderBox(record.SubProjectCode, renderRecord(record)))
			return nil
		},
	}
}

func recordsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete one record from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				return fmt.Errorf("deleting is permanent, re-run with --yes to confirm")
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRecordByCode(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("no record with code %q", args[0])
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted record %s", args[0])))
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm the deletion")

	return cmd
}

func renderRecord(r *model.BudgetRecord) string {
	var b strings.Builder

	text := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%-28s %s\n", label, value)
	}

	text("Contract title", r.ContractTitle)
	text("Contract number", r.ContractNumber)
	text("Contract date", r.ContractDate)
	text("Contractor", r.Contractor)
	text("Agent", r.Agent)
	text("Status", r.ContractStatus)
	text("Executive dept", r.ExecutiveDept)
	text("Start date", r.StartDate)
	text("End date", r.EndDate)
	text("Extended end date", r.ExtendedEndDate)
	text("Work referral method", r.WorkReferralMethod)
	text("Credit number", r.CreditNumber)
	text("Nature", r.Nature)

	text("Total contract", formatAmount(r.TotalContractAmount))
	text("Initial amount", formatAmount(r.InitialAmount))
	text("Year cash credit", formatAmount(r.CurrentYearCashCredit))
	text("Year non-cash credit", formatAmount(r.CurrentYearNonCashCredit))
	text("Year total credit", formatAmount(r.CurrentYearTotalCredit))
	text("Total credit from start", formatAmount(r.TotalCreditFromStart))
	text("Total invoices", formatAmount(r.TotalInvoicesAmount))
	text("Work progress", formatAmount(r.TotalWorkProgress))
	text("Year invoices", formatAmount(r.CurrentYearInvoicesAmount))

	text("Adjustment", formatAmount(r.AdjustmentAmount))
	text("Max required credit", formatAmount(r.MaxRequiredCredit))
	text("Credit deficit", formatAmount(r.CreditDeficit))

	return strings.TrimRight(b.String(), "\n")
}
