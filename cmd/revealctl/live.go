package main

import (
	"fmt"
	"os"

	"github.com/alfredjeanlab/reveal/internal/client"
	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "mount <kind>",
	Short: "Mount a chart on the server",
	Long: `Mount a chart on a running reveal server. The chart stays hidden until
its region reports a visible fraction at or above its threshold.`,
	Example: `  revealctl mount gauge
  revealctl mount sparkline --seed 7 --region hero --threshold 0.5`,
	GroupID: "live",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.MountRequest{Kind: args[0]}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			req.Seed = &seed
		}
		req.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		req.Region, _ = cmd.Flags().GetString("region")

		info, err := chartClient.Mount(cmd.Context(), req)
		if err != nil {
			return err
		}
		printInfo(info)
		return nil
	},
}

var revealCmd = &cobra.Command{
	Use:   "reveal <id>",
	Short: "Report a visible fraction for a chart's region",
	Example: `  revealctl reveal ch-3fQ9zK1bWd
  revealctl reveal ch-3fQ9zK1bWd --ratio 0.2`,
	GroupID: "live",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratio, _ := cmd.Flags().GetFloat64("ratio")
		info, err := chartClient.Reveal(cmd.Context(), args[0], ratio)
		if err != nil {
			return err
		}
		printInfo(info)
		return nil
	},
}

var disposeCmd = &cobra.Command{
	Use:     "dispose <id> [<id>...]",
	Short:   "Dispose mounted charts",
	GroupID: "live",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, id := range args {
			err := chartClient.Dispose(cmd.Context(), id)
			if client.IsNotFound(err) {
				fmt.Fprintf(os.Stderr, "%s is not mounted\n", id)
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error disposing %s: %v\n", id, err)
				failed++
				continue
			}
			if !jsonOutput {
				fmt.Printf("Disposed %s\n", id)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d charts could not be disposed", failed, len(args))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status [<id>]",
	Short:   "Show one chart, or list every mounted chart",
	GroupID: "live",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			info, err := chartClient.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInfo(info)
			return nil
		}
		entries, err := chartClient.List(cmd.Context())
		if err != nil {
			return err
		}
		printEntries(entries)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := chartClient.Health(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]string{"status": status})
			return nil
		}
		fmt.Println(status)
		return nil
	},
}

func init() {
	mountCmd.Flags().Int64("seed", 0, "generator seed (default: the server's seed)")
	mountCmd.Flags().Float64("threshold", 0, "visible fraction that reveals the chart (default: per kind)")
	mountCmd.Flags().String("region", "", "observed region (default: the chart's page section)")

	revealCmd.Flags().Float64("ratio", 1, "visible fraction in [0, 1]")
}
