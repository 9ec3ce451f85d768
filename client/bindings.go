package main

import (
	"slices"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/scheduler"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the lifecycle events methods can be bound to",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range events.Bindings() {
			e, err := events.Resolve(b)
			if err != nil {
				return err
			}
			event := "-"
			if e != nil {
				event = e.String()
			}
			cmd.Printf("%-18s %s\n", b, event)
		}

		if lo.Must(cmd.Flags().GetBool("defaults")) {
			cmd.Println()
			defaults := scheduler.DefaultBindings()
			methods := lo.Keys(defaults)
			slices.Sort(methods)
			for _, method := range methods {
				notify := defaults[method]
				cmd.Printf("%-18s before=%s after=%s\n", color.HiCyanString(method), bindingName(notify.Before), bindingName(notify.After))
			}
		}
		return nil
	},
}

func init() {
	bindingsCmd.Flags().Bool("defaults", false, "also show the default bindings of scheduler methods")
}

func bindingName(b events.Binding) string {
	return lo.Ternary(b == "", string(events.BindingNone), string(b))
}
