package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/tarkov-build/internal/docker"
	"github.com/mmr-tortoise/tarkov-build/internal/logging"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// NewRunCommandCommand creates the "run-command" cobra command, which
// prints only the `docker run` line without building anything.
func NewRunCommandCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "run-command",
		Short: "Print the docker run command for the image",
		Long: `Print the command that starts the optimizer container, without building.

A warning is logged when the image is not present locally.

Examples:
  tarkov-build run-command
  tarkov-build run-command --host-port 18501`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunCommand(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runRunCommand(cmd *cobra.Command, flags *buildFlags) error {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}
	hint, err := cfg.RunHint()
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid image reference", err)
	}

	// The existence check is advisory: without a daemon the line is still
	// printed.
	if api, cleanup, err := imageAPIFactory(cmd.Context()); err != nil {
		VerboseLog("Skipping image check: %v", err)
	} else {
		exists, err := docker.ImageExists(cmd.Context(), api, hint.Image)
		cleanup()
		switch {
		case err != nil:
			VerboseLog("Skipping image check: %v", err)
		case !exists:
			logging.S().Warnf("image %s not found locally; build it with tarkov-build first", hint.Image)
		}
	}

	warnIfPortBusy(hint)

	if IsJSONOutput() {
		return printJSON(cmd, map[string]interface{}{
			"runCommand": hint.Command(),
			"hint":       hint,
		})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hint.Command())
	return err
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
