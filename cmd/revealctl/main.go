// Command revealctl renders the landing page charts and drives a reveal server.
package main

import (
	"os"

	"github.com/alfredjeanlab/reveal/internal/client"
	"github.com/alfredjeanlab/reveal/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	noColor    bool

	chartClient client.ChartClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("REVEAL_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:           "revealctl <command>",
	Short:         "Render and reveal the landing page charts",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		chartClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if chartClient != nil {
			chartClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "reveal server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("REVEAL_AUTH_TOKEN"), "bearer token for the reveal server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "charts", Title: "Charts:"},
		&cobra.Group{ID: "live", Title: "Live:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Charts
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(tickersCmd)

	// Live
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(disposeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
