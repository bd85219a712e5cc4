package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/ui"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:     "palette",
	Short:   "Show or write chart palettes",
	GroupID: "system",
}

var paletteShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Print a palette's roles and colors",
	Long: `Print the roles of a built-in palette (default or standalone), or of a
palette file given with --file.`,
	Example: `  revealctl palette show standalone
  revealctl palette show --file brand.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		var (
			pal palette.Palette
			err error
		)
		switch {
		case file != "":
			pal, err = palette.Load(file)
		case len(args) == 1:
			pal, err = palette.Named(args[0])
		default:
			pal = palette.Default()
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(pal)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tVALUE\t")
		for _, role := range pal.Roles() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", role, pal.Color(role), ui.Swatch(pal.Color(role)))
		}
		return w.Flush()
	},
}

var paletteInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a palette file to edit",
	Example: `  revealctl palette init brand.toml --base standalone
  REVEAL_PALETTE_FILE=brand.toml revealctl serve`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		pal, err := palette.Named(base)
		if err != nil {
			return err
		}
		if _, err := os.Stat(args[0]); err == nil && !overwrite {
			return fmt.Errorf("%s already exists (use --overwrite)", args[0])
		}
		if err := palette.Save(args[0], pal); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		fmt.Printf("Wrote %s palette to %s\n", ui.RenderAccent(base), args[0])
		return nil
	},
}

func init() {
	paletteShowCmd.Flags().String("file", "", "TOML palette file")

	paletteInitCmd.Flags().String("base", "standalone", "built-in palette to start from")
	paletteInitCmd.Flags().Bool("overwrite", false, "replace an existing file")

	paletteCmd.AddCommand(paletteShowCmd)
	paletteCmd.AddCommand(paletteInitCmd)
}
