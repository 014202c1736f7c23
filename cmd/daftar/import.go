package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/toranj-io/daftar/internal/cli"
	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/importer"
	"github.com/toranj-io/daftar/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx> [more files...]",
		Short: "Import budget records from spreadsheet files",
		Long: `Read one or more xlsx exports, validate each batch, compute the derived
credit figures and reconcile the result against the ledger. Records whose
sub-project code already exists are updated in place; new codes are
inserted. Each file commits independently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Validate and show what would change without writing")
	cmd.Flags().Bool("verbose", false, "List every valid record with its derived figures")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	im := importer.New(store)

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var failures int
	for _, path := range args {
		result, err := importFile(cmd, im, path, dryRun)
		_ = bar.Add(1)
		if err != nil {
			failures++
			common.LogError(err, "Import failed", common.Fields{"file": path})
			fmt.Fprintln(os.Stderr, cli.FormatError(fmt.Sprintf("%s: %v", path, err)))
			continue
		}
		printImportResult(path, result, dryRun, verbose)
	}

	if failures > 0 {
		return common.NewUserError(
			fmt.Sprintf("%d of %d file(s) failed to import", failures, len(args)), nil)
	}
	return nil
}

func importFile(cmd *cobra.Command, im *importer.Importer, path string, dryRun bool) (*model.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if dryRun {
		return im.Preview(cmd.Context(), f)
	}
	return im.Import(cmd.Context(), f)
}

func printImportResult(path string, result *model.ImportResult, dryRun, verbose bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Parsed:   %d\n", result.TotalParsed)
	fmt.Fprintf(&b, "Valid:    %d\n", result.TotalValid)
	if dryRun {
		fmt.Fprintf(&b, "Would write: %d (dry run)", result.TotalValid)
	} else {
		fmt.Fprintf(&b, "Inserted: %d\n", result.InsertedCount)
		fmt.Fprintf(&b, "Updated:  %d", result.UpdatedCount)
	}

	fmt.Println()
	fmt.Println(cli.RenderBox(path, b.String()))

	for _, msg := range result.Errors {
		fmt.Println(cli.FormatWarning(msg))
	}

	if verbose {
		for i := range result.ValidRecords {
			r := &result.ValidRecords[i]
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %-15s contract=%s max-credit=%s deficit=%s",
				r.SubProjectCode,
				formatAmount(r.TotalContractAmount),
				formatAmount(r.MaxRequiredCredit),
				formatAmount(r.CreditDeficit))))
		}
	}
}
