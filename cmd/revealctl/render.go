package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/client"
	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/render"
	"github.com/alfredjeanlab/reveal/internal/seq"
	"github.com/alfredjeanlab/reveal/internal/ui"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <kind>",
	Short: "Render a chart to SVG",
	Long: `Render one of the landing page charts (` + kindList() + `) to SVG.

The chart is rendered revealed unless --hidden is given. Without --remote it
is rendered locally with the standalone palette so the file works outside the
page stylesheet.`,
	Example: `  revealctl render gauge -o gauge.svg
  revealctl render bars --seed 7 --hidden --palette default -o bars.svg
  revealctl render network --remote --force`,
	GroupID: "charts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := render.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown chart kind %q (want one of %s)", args[0], kindList())
		}
		seed, _ := cmd.Flags().GetInt64("seed")
		hidden, _ := cmd.Flags().GetBool("hidden")
		palName, _ := cmd.Flags().GetString("palette")
		palFile, _ := cmd.Flags().GetString("palette-file")
		outPath, _ := cmd.Flags().GetString("output")
		remote, _ := cmd.Flags().GetBool("remote")
		force, _ := cmd.Flags().GetBool("force")

		if outPath == "" && !force && ui.IsTerminal(os.Stdout) {
			return fmt.Errorf("refusing to write SVG to a terminal; use -o <file> or --force")
		}

		var data []byte
		if remote {
			req := &client.RenderRequest{Kind: string(kind), Hidden: hidden, Palette: palName}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			var err error
			if data, err = chartClient.Render(cmd.Context(), req); err != nil {
				return err
			}
		} else {
			pal, err := resolvePalette(palName, palFile)
			if err != nil {
				return err
			}
			if data, err = renderLocal(kind, seed, !hidden, pal); err != nil {
				return err
			}
		}

		if outPath == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", outPath, len(data))
		return nil
	},
}

// renderLocal mounts kind without an observer, so it is revealed at once,
// and encodes it presented for visible.
func renderLocal(kind render.Kind, seed int64, visible bool, pal palette.Palette) ([]byte, error) {
	c, dispose, err := chart.Mount(kind, chart.Options{ID: string(kind), Seed: seed})
	if err != nil {
		return nil, err
	}
	defer dispose()
	d, err := c.Drawing()
	if err != nil {
		return nil, err
	}
	return render.SVG(d.WithVisible(visible), pal, render.WithIDPrefix(c.ID()+"-"))
}

// resolvePalette loads palFile when set, otherwise the built-in palName.
// The CLI defaults to the standalone palette.
func resolvePalette(palName, palFile string) (palette.Palette, error) {
	if palFile != "" {
		return palette.Load(palFile)
	}
	if palName == "" {
		return palette.Standalone(), nil
	}
	return palette.Named(palName)
}

func kindList() string {
	names := make([]string, len(render.Kinds))
	for i, k := range render.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the generated throughput series",
	Example: `  revealctl series --seed 42
  revealctl series --proportions --bars 12`,
	GroupID: "charts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		length, _ := cmd.Flags().GetInt("length")
		proportions, _ := cmd.Flags().GetBool("proportions")
		bars, _ := cmd.Flags().GetInt("bars")

		s := seq.Series(seed, length, seq.Default, seq.TrendRange)
		if !proportions {
			if jsonOutput {
				printJSON(s)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "I\tVALUE")
			for i, v := range s {
				fmt.Fprintf(w, "%d\t%.4f\n", i, v)
			}
			w.Flush()
			lo, hi := s.Bounds()
			fmt.Printf("\n%d samples, min %.4f, max %.4f\n", len(s), lo, hi)
			return nil
		}

		triples := geometry.Proportions(s.Tail(bars))
		if jsonOutput {
			printJSON(triples)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "I\tSUCCESS\tPENDING\tCOST\tSUM")
		for i, p := range triples {
			fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\n", i, p.Success, p.Pending, p.Cost, p.Sum())
		}
		w.Flush()
		return nil
	},
}

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Print the hero marquee tickers",
	Example: `  revealctl tickers
  revealctl tickers --symbols BTC,ETH --remote`,
	GroupID: "charts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, _ := cmd.Flags().GetStringSlice("symbols")
		remote, _ := cmd.Flags().GetBool("remote")

		if remote {
			tickers, err := chartClient.Tickers(cmd.Context(), symbols)
			if err != nil {
				return err
			}
			printTickers(os.Stdout, tickers)
			return nil
		}
		for i := range symbols {
			symbols[i] = strings.ToUpper(strings.TrimSpace(symbols[i]))
		}
		printTickers(os.Stdout, seq.Tickers(symbols))
		return nil
	},
}

func init() {
	renderCmd.Flags().Int64("seed", 42, "generator seed")
	renderCmd.Flags().Bool("hidden", false, "render the pre-reveal state")
	renderCmd.Flags().String("palette", "", "built-in palette: default or standalone (local default: standalone)")
	renderCmd.Flags().String("palette-file", "", "TOML palette file (local only)")
	renderCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	renderCmd.Flags().Bool("remote", false, "render on the server instead of locally")
	renderCmd.Flags().Bool("force", false, "write SVG even when stdout is a terminal")

	seriesCmd.Flags().Int64("seed", 42, "generator seed")
	seriesCmd.Flags().Int("length", seq.TrendLength, "number of samples")
	seriesCmd.Flags().Bool("proportions", false, "print the stacked-bar proportions of the trailing samples")
	seriesCmd.Flags().Int("bars", chart.DefaultBars, "trailing samples used with --proportions")

	tickersCmd.Flags().StringSlice("symbols", nil, "ticker symbols (default: the landing page set)")
	tickersCmd.Flags().Bool("remote", false, "fetch tickers from the server")
}
