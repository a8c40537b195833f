package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/relvacode/iso8601"
	"github.com/spf13/cobra"

	"rideintervals/internal/analysis"
	"rideintervals/internal/config"
	"rideintervals/internal/service"
	"rideintervals/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := new(slog.LevelVar)
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen}))

	if err := newRootCmd(logger, level).ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// app holds what every subcommand needs once the config is loaded
type app struct {
	cfg    *config.Config
	db     *store.DB
	rides  *service.RideService
	logger *slog.Logger
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	a := app{logger: logger}

	cmd := &cobra.Command{
		Use:           "rideintervals",
		Short:         "Discover intervals in recorded rides",
		Long:          `Discover peak powers, maximal efforts, climbs and routes in recorded rides, and keep them fresh as the athlete's zones, weight and ride files change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				level.Set(slog.LevelDebug)
			}
			return a.open(configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rideintervals/config.json)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(importCmd(&a), checkCmd(&a), refreshCmd(&a), intervalsCmd(&a), weightCmd(&a))

	return cmd
}

// open loads the configuration and opens the catalog
func (a *app) open(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if errors.Is(err, config.ErrNoConfig) {
		if configPath != "" {
			return fmt.Errorf("config file %s not found", configPath)
		}
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		a.logger.Info("no config file found, wrote an example", "path", configDir+"/config.json")
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := store.Open(cfg.Data.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	a.cfg = cfg
	a.db = db
	a.rides = service.NewRideService(db, cfg, a.logger)
	return nil
}

func parseRideID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ride id %q", arg)
	}
	return id, nil
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Load ride documents and the route table into the catalog",
		Long:  `Load every ride document (*.json) in a directory, and its routes.json if present. The directory defaults to data.activities_dir.`,
		Example: `rideintervals import
rideintervals import ~/rides`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Data.ActivitiesDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no directory given and data.activities_dir is not set")
			}

			result, err := a.rides.Import(cmd.Context(), dir, nil)
			if err != nil {
				return err
			}
			for _, e := range result.Errors {
				a.logger.Warn("file skipped", "error", e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s rides and %s routes\n",
				humanize.Comma(int64(result.RidesImported)), humanize.Comma(int64(result.RoutesImported)))
			return nil
		},
	}
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check <ride-id>",
		Short:   "Report whether a ride's derived intervals are stale",
		Example: `rideintervals check 42`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRideID(args[0])
			if err != nil {
				return err
			}

			verdict, err := a.rides.Check(id)
			if err != nil {
				return err
			}

			ride, err := a.db.GetRide(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verdict.Stale {
				fmt.Fprintf(out, "ride %d is stale: %s\n", id, verdict.Reason)
			} else {
				fmt.Fprintf(out, "ride %d is fresh\n", id)
			}
			if t := ride.Staleness.ContentTime; !t.IsZero() {
				fmt.Fprintf(out, "last refreshed %s, %d intervals\n", humanize.Time(t), ride.Staleness.Intervals)
			}
			return nil
		},
	}
}

func refreshCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "refresh [ride-id]",
		Short: "Rebuild derived intervals for a ride, or every stale ride",
		Example: `rideintervals refresh 42
rideintervals refresh --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if all {
				result, err := a.rides.RefreshAll(cmd.Context(), nil)
				if err != nil {
					return err
				}
				for _, e := range result.Errors {
					a.logger.Warn("ride skipped", "error", e)
				}
				fmt.Fprintf(out, "checked %s rides, refreshed %s\n",
					humanize.Comma(int64(result.Checked)), humanize.Comma(int64(result.Refreshed)))
				return nil
			}

			id, err := parseRideID(args[0])
			if err != nil {
				return err
			}
			derived, err := a.rides.Refresh(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ride %d: %d intervals\n", id, len(derived))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "check every ride and refresh the stale ones")
	return cmd
}

func intervalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "intervals <ride-id>",
		Short:   "List a ride's derived intervals, refreshing it first if stale",
		Example: `rideintervals intervals 42`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRideID(args[0])
			if err != nil {
				return err
			}

			derived, verdict, err := a.rides.Intervals(id)
			if err != nil {
				return err
			}
			if verdict.Stale {
				a.logger.Info("ride was stale", "ride", id, "reason", verdict.Reason.String())
			}

			printIntervals(cmd, derived)
			return nil
		},
	}
}

const colorColumn = 6

func printIntervals(cmd *cobra.Command, derived []analysis.DerivedInterval) {
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEQ", "KIND", "NAME", "START", "STOP", "DISTANCE", "COLOR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(derived) {
				return cell.Bold(true)
			}
			if col == colorColumn && derived[row].Color != "" {
				return cell.Foreground(lipgloss.Color(derived[row].Color))
			}
			return cell
		})

	for _, iv := range derived {
		t.Row(
			strconv.Itoa(iv.Sequence),
			iv.Kind.String(),
			iv.Name,
			fmt.Sprintf("%.0f", iv.Start),
			fmt.Sprintf("%.0f", iv.Stop),
			fmt.Sprintf("%.2f km", (iv.StopDistance-iv.StartDistance)/1000),
			iv.Color,
		)
	}

	fmt.Fprintln(cmd.OutOrStdout(), t)
}

func weightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "weight <date> <kg>",
		Short:   "Record a body mass measurement",
		Example: `rideintervals weight 2024-03-01 71.4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := iso8601.ParseString(args[0] + "T00:00:00Z")
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			kg, err := strconv.ParseFloat(args[1], 64)
			if err != nil || kg <= 0 {
				return fmt.Errorf("invalid weight %q", args[1])
			}
			if err := a.db.SaveWeight(date, kg); err != nil {
				return fmt.Errorf("saving weight: %w", err)
			}
			a.logger.Info("recorded weight", "date", args[0], "kg", kg)
			return nil
		},
	}
}
