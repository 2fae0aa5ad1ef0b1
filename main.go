package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"infinite-carousel/app"
	"infinite-carousel/config"
	"infinite-carousel/log"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version = "0.3.0"

	pagingFlag     bool
	datesFileFlag  string
	noWatchFlag    bool
	scrollSettleMs int

	rootCmd = &cobra.Command{
		Use:   "infinite-carousel",
		Short: "infinite-carousel - endlessly wrapping date pickers in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := effectiveConfig(cmd)
			log.Initialize(cfg.LogConfig())
			defer log.Close()

			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("infinite-carousel needs an interactive terminal")
			}

			if err := app.Run(ctx, cfg); err != nil {
				return fmt.Errorf("failed to run: %w", err)
			}
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug info like config paths and the detected color profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			configJson, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			logDir, err := log.GetLogDir(cfg.LogConfig())
			if err != nil {
				return fmt.Errorf("failed to get log directory: %w", err)
			}

			fmt.Printf("Config: %s\n%s\n", cfg.Path(), configJson)
			fmt.Printf("Logs: %s\n", logDir)
			fmt.Printf("Color profile: %s\n", profileName(termenv.ColorProfile()))
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				fmt.Printf("Terminal: %dx%d\n", w, h)
			}
			return nil
		},
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Write the current settings, including flags, to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", cfg.Path())
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of infinite-carousel",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("infinite-carousel version %s\n", version)
		},
	}
)

// effectiveConfig loads the config file and applies flags that were set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("paging") {
		cfg.Paging = pagingFlag
	}
	if flags.Changed("dates-file") {
		cfg.DatesFile = datesFileFlag
	}
	if flags.Changed("no-watch") {
		cfg.WatchDatesFile = !noWatchFlag
	}
	if flags.Changed("scroll-settle") {
		cfg.ScrollSettleMs = scrollSettleMs
	}
	return cfg
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&pagingFlag, "paging", false, "Let flings stop between cells instead of snapping")
	flags.StringVar(&datesFileFlag, "dates-file", "", "File with one YYYY-MM-DD date per line for the dates carousel")
	flags.BoolVar(&noWatchFlag, "no-watch", false, "Do not reload the dates carousel when the dates file changes")
	flags.IntVar(&scrollSettleMs, "scroll-settle", 0, "Milliseconds a programmatic scroll takes to settle")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
