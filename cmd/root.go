package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudowork/rgbfix/internal/log"
	"github.com/sudowork/rgbfix/internal/output"
	"github.com/sudowork/rgbfix/internal/patcher"
	"github.com/sudowork/rgbfix/internal/platform"
	"github.com/sudowork/rgbfix/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rgbfix",
	Short: "Force displays from YPbPr into RGB pixel encoding",
	Long: "rgbfix edits the com.apple.windowserver.displays.plist preference files so\n" +
		"monitors that default to YPbPr come up in RGB. Originals are backed up next\n" +
		"to the files before anything is written.",
	RunE: runFix,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.Flags().Bool("dry-run", false, "Report what would be done without modifying any files")
	rootCmd.Flags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
	rootCmd.Flags().Bool("verbose", false, "Enable debug logging")
	rootCmd.Flags().Bool("force", false, "Proceed on macOS releases this tool has not been tested on")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := ""
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		log.Configure(log.Config{Level: level})

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}

func runFix(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	logger := log.Base()
	if dryRun {
		logger.Info().Msg("running in dry-run mode")
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	if err := checkOS(provider.Gate, dryRun, force); err != nil {
		return err
	}

	p := patcher.New(provider.Files, provider.ByHost, patcher.Options{DryRun: dryRun})
	report, err := p.Run()
	if err != nil {
		return err
	}
	return output.Print(report)
}

// checkOS enforces the macOS version gate. Untested releases only warn in
// dry-run mode or when --force is given; releases without the
// LinkDescription field are always fatal.
func checkOS(gate platform.Gate, dryRun, force bool) error {
	if gate == nil {
		return nil
	}
	err := gate.CheckOS()
	if err == nil {
		return nil
	}
	if errors.Is(err, platform.ErrUntestedOS) && (dryRun || force) {
		l := log.Base()
		l.Warn().Msg(err.Error())
		return nil
	}
	if errors.Is(err, platform.ErrUntestedOS) {
		return fmt.Errorf("%w; re-run with --force to proceed anyway", err)
	}
	return err
}
