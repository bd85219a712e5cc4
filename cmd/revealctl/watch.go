package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/reveal/internal/events"
	"github.com/alfredjeanlab/reveal/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream chart lifecycle events from NATS",
	Long: `Subscribe to the chart lifecycle events a reveal server publishes to NATS
and print one line per event until interrupted.`,
	Example: `  revealctl watch --nats nats://localhost:4222
  revealctl watch --topic reveal.chart.revealed --json`,
	GroupID: "live",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("nats")
		if url == "" {
			return fmt.Errorf("no NATS URL: pass --nats or set REVEAL_NATS_URL")
		}
		topic, _ := cmd.Flags().GetString("topic")

		sub, err := events.NewNATSSubscriber(url,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s disconnected: %v\n", ui.RenderMuted("watch:"), err)
				}
			}),
			nats.ReconnectHandler(func(*nats.Conn) {
				fmt.Fprintf(os.Stderr, "%s reconnected\n", ui.RenderMuted("watch:"))
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ch, err := sub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		for msg := range ch {
			printEvent(os.Stdout, time.Now(), msg)
		}
		if n := sub.Dropped(); n > 0 {
			fmt.Fprintf(os.Stderr, "%d events dropped while the terminal fell behind\n", n)
		}
		return nil
	},
}

func printEvent(w io.Writer, at time.Time, msg events.Message) {
	if jsonOutput {
		fmt.Fprintf(w, "{\"topic\":%q,\"event\":%s}\n", msg.Topic, msg.Data)
		return
	}
	stamp := ui.RenderMuted(at.Format("15:04:05.000"))
	v, err := msg.Decode()
	if err != nil {
		fmt.Fprintf(w, "%s %s %s\n", stamp, msg.Topic, msg.Data)
		return
	}
	switch e := v.(type) {
	case *events.ChartMounted:
		fmt.Fprintf(w, "%s %-9s %s %s region=%s threshold=%g\n",
			stamp, "mounted", ui.RenderAccent(e.ChartID), e.Kind, e.Region, e.Threshold)
	case *events.ChartRevealed:
		line := fmt.Sprintf("%s %-9s %s %s settles in %dms", stamp, "revealed", ui.RenderAccent(e.ChartID), e.Kind, e.SettleMs)
		if e.FailedOpen {
			line += " " + ui.RenderBrand("(failed open)")
		}
		fmt.Fprintln(w, line)
	case *events.ChartDisposed:
		reason := e.Reason
		if reason == "" {
			reason = "released"
		}
		fmt.Fprintf(w, "%s %-9s %s %s %s\n", stamp, "disposed", ui.RenderAccent(e.ChartID), e.Kind, ui.RenderMuted(reason))
	}
}

func init() {
	watchCmd.Flags().String("nats", os.Getenv("REVEAL_NATS_URL"), "NATS URL (default: REVEAL_NATS_URL)")
	watchCmd.Flags().String("topic", events.TopicChartAll, "subject pattern to follow")
}
