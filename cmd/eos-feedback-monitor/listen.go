package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"eos-mcp/internal/analytics"
	"eos-mcp/internal/feedback"
	"eos-mcp/internal/history"
	"eos-mcp/internal/query"
	"eos-mcp/internal/receiver"
)

func newListenCmd() *cobra.Command {
	var (
		port   int
		bind   string
		window int
		every  time.Duration
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive OSC feedback and periodically print operator insights",
		Example: `  eos-feedback-monitor listen
  eos-feedback-monitor listen --port 3033 --window 15 --every 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListen(cmd, bind, port, window, every, quiet)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", receiver.DefaultPort, "UDP port to listen on")
	cmd.Flags().StringVar(&bind, "bind", receiver.DefaultBind, "Address to bind")
	cmd.Flags().IntVarP(&window, "window", "w", analytics.DefaultWindowMinutes, "Insights window in minutes")
	cmd.Flags().DurationVarP(&every, "every", "e", time.Minute, "How often to print insights (0 disables)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print individual messages")
	return cmd
}

func runListen(cmd *cobra.Command, bind string, port, window int, every time.Duration, quiet bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	var outMu sync.Mutex

	store := history.NewStore(history.DefaultCapacity)
	svc := query.NewService(store)

	deps := receiver.Deps{Store: store, Bind: bind, Port: port}
	if !quiet {
		deps.Observer = func(m feedback.Message) {
			outMu.Lock()
			defer outMu.Unlock()
			printMessage(out, m)
		}
	}
	rx := receiver.New(deps)
	if err := rx.Start(ctx); err != nil {
		return err
	}
	outMu.Lock()
	fmt.Fprintf(out, "Listening for Eos feedback on %s (Ctrl+C to stop)\n", rx.Addr())
	outMu.Unlock()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	done := rx.Done()

	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return finish(out, &outMu, renderer, svc, window, rx)
		case <-done:
			if ctx.Err() != nil {
				return finish(out, &outMu, renderer, svc, window, rx)
			}
			return fmt.Errorf("receiver stopped unexpectedly")
		case <-tick:
			outMu.Lock()
			printInsights(out, renderer, svc.Insights(window))
			outMu.Unlock()
		}
	}
}

// finish prints a last summary and releases the socket.
func finish(w io.Writer, mu *sync.Mutex, renderer *glamour.TermRenderer, svc *query.Service, window int, rx *receiver.Receiver) error {
	mu.Lock()
	printInsights(w, renderer, svc.Insights(window))
	mu.Unlock()
	return rx.Stop(2 * time.Second)
}

func printMessage(w io.Writer, m feedback.Message) {
	fmt.Fprintf(w, "%s  %-12s %s %s\n", m.Timestamp.Format("15:04:05.000"), m.Category, m.Topic, m.Content())
}

func printInsights(w io.Writer, renderer *glamour.TermRenderer, report *analytics.Report) {
	summary := report.GenerateReportSummary()
	rendered, err := renderer.Render(summary)
	if err != nil {
		rendered = summary
	}
	fmt.Fprintln(w, strings.TrimRight(rendered, "\n"))
}
