package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-rate/internal/config"
	ferrors "freight-rate/internal/errors"
)

// showCmd prints a logged quotation
var showCmd = &cobra.Command{
	Use:   "show <quotation-id>",
	Short: "Show a saved quotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx, config.Get())
		if err != nil {
			return err
		}
		defer b.Close()
		if b.quotations == nil {
			return ferrors.New(ferrors.TypeConfig, "the memory driver keeps no quotation log")
		}

		saved, err := b.quotations.GetQuotation(ctx, args[0])
		if err != nil {
			return ferrors.Storage("load quotation", err)
		}
		if saved == nil {
			return ferrors.Newf(ferrors.TypeInput, "quotation %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, saved)
		}
		fmt.Fprintf(out, "Quotation %s, saved %s\n", saved.ID, saved.CreatedAt.Format("2006-01-02 15:04:05"))
		printQuotation(out, &saved.Result, nil)
		if ids, err := b.quotations.FindByFingerprint(ctx, saved.Fingerprint); err == nil && len(ids) > 1 {
			fmt.Fprintf(out, "Identical to %d other saved quotation(s)\n", len(ids)-1)
		}
		return nil
	},
}
