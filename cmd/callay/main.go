package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"callay/internal/config"
	appLog "callay/internal/log"
	"callay/internal/pipeline"
	"callay/internal/report"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "callay",
	Short: "Lay out ICS calendars as month grids and day columns",
	Long: `callay reads local ICS files, expands recurring events in a display
timezone and computes calendar layouts:

- month: week rows where multi-day events keep one row and get one box per week
- day:   per-day columns for overlapping events

Layouts are printed as tables or JSON. 'callay watch' rewrites a JSON snapshot
on a cron schedule.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CALLAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringSlice("ics", nil, "extra ICS file (repeatable)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, error (overrides config)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("ics", rootCmd.PersistentFlags().Lookup("ics"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(layoutCmd(pipeline.ModeMonth, "Print the month layout"))
	rootCmd.AddCommand(layoutCmd(pipeline.ModeDay, "Print the day layout"))
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
}

// loadConfig reads the config file, applies --ics and sets up logging.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	for _, p := range viper.GetStringSlice("ics") {
		cfg.ICS = append(cfg.ICS, config.ICSConfig{Path: p, ID: filepath.Base(p)})
	}
	cfg.Normalize()

	level := viper.GetString("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	appLog.Init(appLog.ParseLevel(level), cfg.LogFile)

	appLog.Debug("effective config",
		"config_path", path,
		"timezone", cfg.Timezone,
		"week_start", cfg.WeekStart,
		"refresh", cfg.RefreshCron,
		"horizon_days", cfg.HorizonDays,
		"backfill_days", cfg.BackfillDays,
		"show_all_day", cfg.ShowAllDay,
		"ics_count", len(cfg.ICS),
	)
	return cfg, nil
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("config")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

type layoutFlags struct {
	from   string
	to     string
	format string
	out    string
}

func layoutCmd(mode pipeline.Mode, short string) *cobra.Command {
	var f layoutFlags
	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.format != "table" && f.format != "json" {
				return fmt.Errorf("unknown format %q", f.format)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer appLog.Sync()

			r, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			start, end, err := r.Range(f.from, f.to)
			if err != nil {
				return err
			}
			snap, err := r.Run(cmd.Context(), mode, start, end)
			if err != nil {
				return err
			}

			if f.format == "json" && f.out != "" {
				return pipeline.SaveJSON(f.out, snap)
			}

			var w io.Writer = cmd.OutOrStdout()
			if f.out != "" {
				file, err := os.Create(f.out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if f.format == "json" {
				return pipeline.WriteJSON(w, snap)
			}
			if mode == pipeline.ModeMonth {
				report.MonthTable(w, snap.Weeks)
			} else {
				report.DayTable(w, snap.Days)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.from, "from", "", "first date YYYY-MM-DD (default today minus backfill_days)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date YYYY-MM-DD (default today plus horizon_days)")
	cmd.Flags().StringVar(&f.format, "format", "table", "output format: table or json")
	cmd.Flags().StringVar(&f.out, "out", "", "write to file instead of stdout")
	return cmd
}

func watchCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the month snapshot on the refresh schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer appLog.Sync()
			if out == "" {
				out = cfg.Output
			}

			r, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			// Root context with cancellation on SIGINT/SIGTERM.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			go func() {
				select {
				case sig := <-sigCh:
					appLog.Info("signal received, shutting down", "signal", sig.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			appLog.Info("callay watch starting", "version", version, "output", out)
			if err := pipeline.NewWatcher(r, out).Run(ctx); err != nil {
				return err
			}
			appLog.Info("callay exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "snapshot path (default: output from config)")
	return cmd
}
