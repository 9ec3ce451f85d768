package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/dhardy92/incubator-aurora/client/ui"
	"github.com/dhardy92/incubator-aurora/configuration"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with job configuration files",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [FILE]",
	Short: "Validate a job configuration file",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		bindings := lo.Must(cmd.Flags().GetStringArray("bind"))
		config, err := readConfiguration(cmd, args[0], bindings)
		if err != nil {
			return err
		}

		job := config.JobConfig()
		cmd.Printf("%-12s %s\n", "Job:", color.HiCyanString(job.Key()))
		cmd.Printf("%-12s %d\n", "Instances:", job.Instances)
		if config.IsCron() {
			cmd.Printf("%-12s %s (%s)\n", "Cron:", *job.CronSchedule, job.CronCollisionPolicy)
		} else if job.Service {
			cmd.Printf("%-12s %s\n", "Service:", "yes")
		}
		cmd.Printf("%-12s %s\n", "Command:", job.Task.Command)
		cmd.Printf("%-12s %s\n", "Simulate:", simulateCommandLine(args[0], bindings))

		if lo.Must(cmd.Flags().GetBool("dump")) {
			cmd.Println()
			cmd.Println(ui.SectionHeaderColor.Sprint("  Configuration  "))
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(job)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)

	configCheckCmd.Flags().StringArrayP("bind", "b", nil, "template bindings to set (key=value)")
	configCheckCmd.Flags().Bool("dump", false, "show the sanitized configuration")
}

// readConfiguration loads a job file with bindings given as key=value pairs.
func readConfiguration(cmd *cobra.Command, file string, bindings []string) (*configuration.SanitizedConfiguration, error) {
	config, err := configuration.Read(file, configuration.ReadOptions{
		Bindings: parseBindings(bindings),
	})
	if err != nil {
		var e configuration.UnmarshalError
		if errors.As(err, &e) && verbose {
			cmd.PrintErrln(e.Source)
		}
		return nil, fmt.Errorf("failed to read job from '%s': %w", file, err)
	}
	return config, nil
}

func parseBindings(bindings []string) map[string]string {
	return lo.SliceToMap(bindings, func(item string) (key, value string) { key, value, _ = strings.Cut(item, "="); return })
}

// simulateCommandLine returns a shell-safe command replaying the given job locally.
func simulateCommandLine(file string, bindings []string) string {
	args := []string{"aurora", "simulate", file}
	for _, b := range bindings {
		args = append(args, "-b", b)
	}
	return shellescape.QuoteCommand(args)
}
