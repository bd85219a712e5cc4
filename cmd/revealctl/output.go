package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/registry"
	"github.com/alfredjeanlab/reveal/internal/seq"
	"github.com/alfredjeanlab/reveal/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printInfo(info *chart.Info) {
	if jsonOutput {
		printJSON(info)
		return
	}
	fmt.Printf("ID:          %s\n", info.ID)
	fmt.Printf("Kind:        %s\n", info.Kind)
	fmt.Printf("Region:      %s (threshold %g)\n", info.Region, info.Threshold)
	fmt.Printf("State:       %s\n", ui.RenderState(info.State.String()))
	fmt.Printf("Visible:     %t\n", info.Visible)
	if info.FailedOpen {
		fmt.Printf("Failed Open: %s\n", ui.RenderBrand("yes"))
	}
	fmt.Printf("Settles:     %dms\n", info.SettleMs)
	fmt.Printf("Mounted At:  %s\n", info.MountedAt.Format("2006-01-02 15:04:05"))
	if info.RevealedAt != nil {
		fmt.Printf("Revealed At: %s\n", info.RevealedAt.Format("2006-01-02 15:04:05"))
	}
}

func printEntries(entries []registry.Entry) {
	if jsonOutput {
		printJSON(entries)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tREGION\tSTATE\tIDLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Kind,
			e.Region,
			e.State,
			(time.Duration(e.IdleSecs) * time.Second).String(),
		)
	}
	w.Flush()
	fmt.Printf("\n%d charts\n", len(entries))
}

func printTickers(out io.Writer, tickers []seq.Ticker) {
	if jsonOutput {
		printJSON(tickers)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tPRICE\tCHANGE")
	for _, t := range tickers {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Symbol, t.PriceLabel(), ui.RenderChange(t.ChangeLabel(), t.Up()))
	}
	w.Flush()
}
