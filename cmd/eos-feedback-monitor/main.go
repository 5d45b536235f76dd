/*
Command eos-feedback-monitor watches OSC feedback from an Eos console in a
terminal, without an MCP client.

Usage:

	eos-feedback-monitor listen --port 3033 --every 1m
	eos-feedback-monitor classify /eos/out/user/1/action /eos/out/dmx/1
	eos-feedback-monitor reports --path reports.jsonl --limit 5
*/
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "eos-feedback-monitor",
		Short:         "Watch and analyse OSC feedback from an ETC Eos console",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newListenCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newReportsCmd())
	return rootCmd
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
