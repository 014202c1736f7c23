package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toranj-io/daftar/internal/cli"
	"github.com/toranj-io/daftar/internal/service"
)

// valuesCmd exposes the distinct values stored for the categorical
// columns, the same lists a UI would offer as filter choices.
func valuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values",
		Short: "List distinct values of the categorical columns",
	}

	cmd.AddCommand(distinctCmd("depts", "Executive departments", func(ctx context.Context, s service.Storage) ([]string, error) {
		return s.GetExecutiveDepts(ctx)
	}))
	cmd.AddCommand(distinctCmd("statuses", "Contract statuses", func(ctx context.Context, s service.Storage) ([]string, error) {
		return s.GetContractStatuses(ctx)
	}))
	cmd.AddCommand(distinctCmd("referrals", "Work referral methods", func(ctx context.Context, s service.Storage) ([]string, error) {
		return s.GetWorkReferralMethods(ctx)
	}))
	cmd.AddCommand(distinctCmd("natures", "Contract natures", func(ctx context.Context, s service.Storage) ([]string, error) {
		return s.GetNatures(ctx)
	}))

	return cmd
}

func distinctCmd(use, title string, fetch func(context.Context, service.Storage) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "List " + use + " seen in the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			values, err := fetch(ctx, store)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(title))
			if len(values) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  (none)"))
				return nil
			}
			for _, v := range values {
				fmt.Printf("  %s\n", v)
			}
			return nil
		},
	}
}
