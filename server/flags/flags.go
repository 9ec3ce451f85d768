package flags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	LogFormat = "log-format"
	LogLevel  = "log-level"
	LogSource = "log-source"

	AfterPolicy                 = "after-policy"
	BindingStorageStartBefore   = "binding-storage-start-before"
	BindingStorageStartAfter    = "binding-storage-start-after"
	BindingDriverRegisterBefore = "binding-driver-register-before"
	BindingDriverRegisterAfter  = "binding-driver-register-after"

	FrameworkID = "framework-id"
	Job         = "job"
	JobBindings = "job-bindings"
)

var flags = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

func init() {

	// Logging
	flags.String(LogFormat, "json", "log format (json, text)")
	flags.String(LogLevel, "INFO", "minimum log level")
	flags.Bool(LogSource, false, "add source code location to logs")

	// Event bindings
	flags.String(AfterPolicy, "success", "when to fire after-events of failing methods (success, always)")
	flags.String(BindingStorageStartBefore, string(events.BindingNone), "event fired before the storage starts")
	flags.String(BindingStorageStartAfter, string(events.BindingStorageStarted), "event fired after the storage started")
	flags.String(BindingDriverRegisterBefore, string(events.BindingNone), "event fired before the driver registers")
	flags.String(BindingDriverRegisterAfter, string(events.BindingDriverRegistered), "event fired after the driver registered")

	// Scheduler
	flags.String(FrameworkID, "aurora", "framework id the driver registers with")
	flags.String(Job, "", "job configuration file to schedule on startup")
	flags.StringToString(JobBindings, nil, "bindings available to the job configuration template")

	viper.SetEnvPrefix("aurora")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	lo.Must0(viper.BindPFlags(flags))
}

// Parse reads the command line. Values not given on the command line keep
// falling back to AURORA_* environment variables and then to flag defaults.
func Parse(args []string) {
	if err := flags.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
