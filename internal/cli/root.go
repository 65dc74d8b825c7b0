// Package cli implements the cobra-based CLI commands for tarkov-build.
//
// Running the binary without a subcommand builds the image and prints the
// status messages, exactly like the "build" subcommand. The remaining
// subcommands (images, run-command) only inspect.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/logrusorgru/aurora"
	"github.com/moby/term"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/tarkov-build/internal/i18n"
	"github.com/mmr-tortoise/tarkov-build/internal/logging"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// Global flag variables shared across all subcommands.
var (
	// jsonOutput switches command output to a single JSON document.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// configPath is an explicit config file; empty means discovery.
	configPath string

	// language selects the status message catalog.
	language string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// Unlike most CLIs the root command does real work: invoked with no
// arguments it runs the default build.
func NewRootCommand() *cobra.Command {
	flags := &buildFlags{}

	rootCmd := &cobra.Command{
		Use:   "tarkov-build",
		Short: "Build the Tarkov Weapon Optimizer container image",
		Long: `tarkov-build builds the tarkov-weapon-optimizer:latest image from the
Dockerfile in the current directory and prints the command that starts it.

Running it without arguments is equivalent to:

  docker build -t tarkov-weapon-optimizer:latest .`,

		Args: cobra.NoArgs,

		// Errors are printed by Execute in text or JSON form.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(verbose)
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default: .tarkov-build.{yaml,yml,jsonc,json,toml} in the working directory)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "",
		fmt.Sprintf("Language of the status messages: %s (default: %s)",
			strings.Join(i18n.Languages(), ", "), i18n.DefaultLanguage))

	flags.register(rootCmd)

	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewImagesCommand())
	rootCmd.AddCommand(NewRunCommandCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. Ctrl-C cancels a running build.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	_ = logging.L().Sync()

	if err == nil {
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}

	printError(err.Error(), nil)
	os.Exit(int(model.ExitGeneralError))
}

// printError writes an error to stderr as text ("Error: ...", red on a
// terminal) or as a JSON object when --json is set.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	_, isTerminal := term.GetFdInfo(os.Stderr)
	au := aurora.NewAurora(isTerminal)
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", au.Red("Error:").Bold(), message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", au.Red("Error:").Bold(), message)
	}
}

// VerboseLog logs at debug level, which is only shown with --verbose.
func VerboseLog(format string, args ...interface{}) {
	logging.S().Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
