package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/angmorpri/hformat/pkg/hformat"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "hformat",
	Short: "Human-readable string formatter",
	Long: `hformat formats strings with a readable function-pipeline syntax
instead of a printf-style spec grammar:

  hformat render "{3/11: width(10), fill(-), float(3), center}"`,
	PersistentPreRunE: setupConfig,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to a TOML configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupConfig applies the --color and --config persistent flags before any
// subcommand runs.
func setupConfig(cmd *cobra.Command, args []string) error {
	switch mode, _ := cmd.Flags().GetString("color"); mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config, err := hformat.ConfigFromFile(path)
		if err != nil {
			return err
		}
		hformat.SetGlobalConfig(config)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func fail(err error) error {
	color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
	return err
}
