package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

var verbose bool

var auroraCmd = &cobra.Command{
	Use:   "aurora",
	Short: "Aurora checks job configurations and replays scheduler events locally.",

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	auroraCmd.AddCommand(bindingsCmd)
	auroraCmd.AddCommand(completionCmd)
	auroraCmd.AddCommand(configCmd)
	auroraCmd.AddCommand(simulateCmd)
	auroraCmd.AddCommand(versionCmd)

	auroraCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auroraCmd.SetOut(os.Stdout)
	if err := auroraCmd.ExecuteContext(ctx); err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, color.HiRedString(fmt.Sprint(err))))
		os.Exit(1)
	}
}
