package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dhardy92/incubator-aurora/client/ui"
	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/scheduler"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Statuses a simulated task goes through once scheduled
var simulatedLifecycle = []events.ScheduleStatus{
	events.StatusAssigned,
	events.StatusStarting,
	events.StatusRunning,
	events.StatusFinished,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [FILE]",
	Short: "Replay the scheduler events of a job in-process",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		spinner := ui.NewSpinner("Reading job")
		config, err := readConfiguration(cmd, args[0], lo.Must(cmd.Flags().GetStringArray("bind")))
		if err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success()

		sim, err := newSimulation(cmd.OutOrStdout(), lo.Must(cmd.Flags().GetString("after-policy")))
		if err != nil {
			return err
		}
		defer sim.close()

		spinner = ui.NewSpinner("Starting storage")
		if err := sim.storage.Start(cmd.Context()); err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success()

		spinner = ui.NewSpinner("Registering driver")
		if err := sim.driver.Register(cmd.Context(), lo.Must(cmd.Flags().GetString("framework-id"))); err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success()

		spinner = ui.NewSpinner(fmt.Sprintf("Scheduling job '%s'", config.JobConfig().Key()))
		ids, err := sim.state.InsertJob(config)
		if err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success()

		var vetoes []events.Veto
		if reason := lo.Must(cmd.Flags().GetString("veto")); reason != "" {
			vetoes = append(vetoes, events.Veto{Reason: reason, Score: 1})
		}
		for _, id := range ids {
			if len(vetoes) > 0 {
				if err := sim.state.Veto(id, vetoes...); err != nil {
					return err
				}
			}
			for _, status := range simulatedLifecycle {
				if err := sim.state.ChangeState(id, status); err != nil {
					return fmt.Errorf("task '%s': %w", id, err)
				}
			}
		}

		if config.IsCron() {
			for _, id := range ids {
				if _, err := sim.state.Reschedule(id); err != nil {
					return fmt.Errorf("task '%s': %w", id, err)
				}
			}
		}

		tasks, err := sim.state.Tasks()
		if err != nil {
			return err
		}
		if err := sim.state.DeleteTasks(lo.Map(tasks, func(t scheduler.Task, _ int) string { return t.ID })...); err != nil {
			return err
		}

		cmd.Println(color.HiGreenString("Simulation of '%s' completed, %d event(s) published", config.JobConfig().Key(), sim.printer.count))
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringArrayP("bind", "b", nil, "template bindings to set (key=value)")
	simulateCmd.Flags().String("after-policy", events.AfterOnSuccess.String(), "when to fire after-events of failing methods (success, always)")
	simulateCmd.Flags().String("framework-id", "aurora-simulation", "framework id the driver registers with")
	simulateCmd.Flags().String("veto", "", "veto every task once with the given reason before it is assigned")
}

type simulation struct {
	bus     *events.Bus
	printer *eventPrinter
	storage *scheduler.Storage
	driver  *scheduler.Driver
	state   *scheduler.StateManager
}

func newSimulation(out io.Writer, afterPolicy string) (*simulation, error) {
	policy, err := events.ParseAfterPolicy(afterPolicy)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(ui.Output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	sim := &simulation{
		bus:     events.NewBus(events.WithLogger(logger)),
		printer: &eventPrinter{out: out},
	}
	sim.bus.Register(sim.printer)

	interceptor, err := events.NewInterceptor(sim.bus, scheduler.DefaultBindings(),
		events.WithAfterPolicy(policy),
		events.WithInterceptorLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	config := scheduler.Config{Logger: logger, Publisher: sim.bus, Interceptor: interceptor}
	if err := scheduler.Validate(config); err != nil {
		return nil, err
	}
	sim.storage = scheduler.NewStorage(config)
	sim.driver = scheduler.NewDriver(config)
	sim.state = scheduler.NewStateManager(config, sim.storage)
	return sim, nil
}

func (s *simulation) close() {
	if s.storage.Started() {
		_ = s.storage.Stop()
	}
}

var kindColors = map[events.Kind]*color.Color{
	events.KindTasksDeleted:     color.New(color.FgHiRed),
	events.KindTaskStateChange:  color.New(color.FgHiCyan),
	events.KindVetoed:           color.New(color.FgHiYellow),
	events.KindTaskRescheduled:  color.New(color.FgHiMagenta),
	events.KindStorageStarted:   color.New(color.FgHiGreen),
	events.KindDriverRegistered: color.New(color.FgHiGreen),
}

// eventPrinter writes every event it receives, one per line.
type eventPrinter struct {
	out   io.Writer
	count int
}

func (p *eventPrinter) Name() string { return "printer" }

func (p *eventPrinter) print(e events.Event) error {
	p.count++
	_, err := fmt.Fprintf(p.out, "%3d  %s\n", p.count, kindColors[e.Kind()].Sprint(e))
	return err
}

func (p *eventPrinter) OnTasksDeleted(e events.TasksDeleted) error         { return p.print(e) }
func (p *eventPrinter) OnTaskStateChange(e events.TaskStateChange) error   { return p.print(e) }
func (p *eventPrinter) OnVetoed(e events.Vetoed) error                     { return p.print(e) }
func (p *eventPrinter) OnTaskRescheduled(e events.TaskRescheduled) error   { return p.print(e) }
func (p *eventPrinter) OnStorageStarted(e events.StorageStarted) error     { return p.print(e) }
func (p *eventPrinter) OnDriverRegistered(e events.DriverRegistered) error { return p.print(e) }
