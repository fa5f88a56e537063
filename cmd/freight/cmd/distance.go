package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-rate/core/distance"
	"freight-rate/internal/config"
)

// distanceCmd resolves the road distance between two location codes
var distanceCmd = &cobra.Command{
	Use:   "distance <from> <to>",
	Short: "Resolve the road distance and transit time between two locations",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := openBackend(ctx, config.Get())
		if err != nil {
			return err
		}
		defer b.Close()

		res, err := distance.NewResolver(b.distances).Resolve(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, res)
		}
		t := newTable(out, fmt.Sprintf("DISTANCE %s → %s", args[0], args[1]))
		t.row("Road distance", km(res.Km))
		t.row("Source", string(res.Source))
		t.row("Validated", fmt.Sprintf("%t", res.Validated))
		t.row("Band", string(res.Band))
		t.row("Transit", res.Transit.Label)
		t.row("Driving time", fmt.Sprintf("%dh %02dm", res.Transit.DrivingHours, res.Transit.DrivingMinutes))
		t.flush()
		return nil
	},
}
