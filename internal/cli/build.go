package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/tarkov-build/internal/config"
	"github.com/mmr-tortoise/tarkov-build/internal/docker"
	"github.com/mmr-tortoise/tarkov-build/internal/logging"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
	"github.com/mmr-tortoise/tarkov-build/internal/port"
	"github.com/mmr-tortoise/tarkov-build/internal/report"
)

// buildFlags holds the flags that override config file settings. A flag
// only takes effect when it was set on the command line.
type buildFlags struct {
	tag           string
	contextDir    string
	dockerfile    string
	buildArgs     map[string]string
	labels        map[string]string
	backend       string
	strict        bool
	hostPort      int
	containerName string
}

// register binds the flags to cmd. Defaults shown in help are the
// built-in ones; config files can change them.
func (f *buildFlags) register(cmd *cobra.Command) {
	def := config.Default()

	cmd.Flags().StringVarP(&f.tag, "tag", "t", def.Image, "Image name and tag")
	cmd.Flags().StringVar(&f.contextDir, "context", def.Context, "Build context directory")
	cmd.Flags().StringVarP(&f.dockerfile, "file", "f", "", "Dockerfile path relative to the context (default: Dockerfile)")
	cmd.Flags().StringToStringVar(&f.buildArgs, "build-arg", nil, "Build-time variables (KEY=VALUE)")
	cmd.Flags().StringToStringVar(&f.labels, "label", nil, "Image labels (KEY=VALUE)")
	cmd.Flags().StringVar(&f.backend, "backend", def.Backend, "Build backend: cli (docker binary) or api (Docker Engine API)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Exit with an error and skip the status messages when the build fails")
	cmd.Flags().IntVar(&f.hostPort, "host-port", def.Run.HostPort, "Host port used in the printed run command")
	cmd.Flags().StringVar(&f.containerName, "container-name", def.Run.ContainerName, "Container name used in the printed run command")
}

// apply copies every changed flag into cfg.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("tag") {
		cfg.Image = f.tag
	}
	if changed("context") {
		cfg.Context = f.contextDir
	}
	if changed("file") {
		cfg.Dockerfile = f.dockerfile
	}
	if changed("build-arg") {
		cfg.BuildArgs = overlay(cfg.BuildArgs, f.buildArgs)
	}
	if changed("label") {
		cfg.Labels = overlay(cfg.Labels, f.labels)
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if changed("host-port") {
		cfg.Run.HostPort = f.hostPort
	}
	if changed("container-name") {
		cfg.Run.ContainerName = f.containerName
	}
}

// overlay returns base with top's entries added or replaced.
func overlay(base, top map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// NewBuildCommand creates the "build" cobra command. It behaves exactly
// like running tarkov-build without a subcommand.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the image and print how to run it",
		Long: `Build the container image from the current directory and print the
command that starts it.

The status messages are printed whether or not the build succeeds,
unless --strict is given.

Examples:
  tarkov-build
  tarkov-build build --tag tarkov-weapon-optimizer:dev
  tarkov-build build --backend api --build-arg PYTHON_VERSION=3.11`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// builderFactory creates the Builder for cfg.Backend. The returned cleanup
// function is never nil when err is nil. Tests replace it.
var builderFactory = func(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (docker.Builder, func(), error) {
	if cfg.Backend != config.BackendAPI {
		return docker.NewCLIBuilder(docker.ExecRunner{}, "docker", stdout, stderr), func() {}, nil
	}

	c, err := docker.NewClient()
	if err != nil {
		return nil, nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return docker.NewAPIBuilder(c.Images(), stdout), func() { _ = c.Close() }, nil
}

// hostPortScanner probes the hint's host port. Tests replace it.
var hostPortScanner = port.NewScanner()

// resolveConfig loads the config file (explicit or discovered), applies
// command-line overrides and validates the result.
func resolveConfig(cmd *cobra.Command, flags *buildFlags) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
	}

	cfg, path, err := config.LoadOrDefault(configPath, cwd)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "failed to load configuration", err)
	}
	if path != "" {
		VerboseLog("Loaded configuration from %s", path)
	}

	if flags != nil {
		flags.apply(cmd, cfg)
	}
	if cmd.Flags().Changed("lang") {
		cfg.Language = language
	}

	if err := config.Validate(cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	return cfg, nil
}

// runBuild builds the image and prints the status messages.
//
// The messages do not depend on the build outcome. A failed build is
// logged as a warning and the command still succeeds, unless strict mode
// is on, in which case nothing is printed and ExitBuildFailed is returned.
// A cancelled context prints nothing and returns ExitInterrupted.
func runBuild(cmd *cobra.Command, flags *buildFlags) error {
	ctx := cmd.Context()

	// Step 1: Resolve settings.
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}
	req, err := cfg.BuildRequest()
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid image reference", err)
	}
	hint, err := cfg.RunHint()
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid image reference", err)
	}

	// Step 2: Build. In JSON mode the tool's output goes to stderr so that
	// stdout carries only the JSON document.
	buildOut := cmd.OutOrStdout()
	if IsJSONOutput() {
		buildOut = cmd.ErrOrStderr()
	}

	result := buildImage(ctx, cfg, req, buildOut, cmd.ErrOrStderr())

	// An interrupted build never reports completion, strict or not.
	if ctx.Err() != nil {
		return model.WrapCLIError(model.ExitInterrupted,
			fmt.Sprintf("build of %s interrupted", req.Image), ctx.Err())
	}

	if !result.Succeeded() {
		if cfg.Strict {
			return model.WrapCLIError(model.ExitBuildFailed,
				fmt.Sprintf("failed to build image %s", req.Image), result.Err)
		}
		logging.S().Warnf("image build failed: %v", result.Err)
	} else {
		VerboseLog("Built %s with the %s backend in %s", req.Image, result.Backend, result.Duration.Round(time.Millisecond))
	}

	// Step 3: Warn about a busy host port. Stdout is unaffected.
	warnIfPortBusy(hint)

	// Step 4: Status messages.
	printer := report.NewPrinter(cmd.OutOrStdout(), cfg.Language)
	if IsJSONOutput() {
		return printer.PrintJSON(result, hint)
	}
	return printer.PrintText(hint)
}

// buildImage runs the configured backend and records the outcome. Failing
// to set up the backend counts as a build failure.
func buildImage(ctx context.Context, cfg *config.Config, req model.BuildRequest, stdout, stderr io.Writer) *model.BuildResult {
	result := &model.BuildResult{Image: req.Image, Backend: cfg.Backend}

	builder, cleanup, err := builderFactory(ctx, cfg, stdout, stderr)
	if err != nil {
		result.Err = err
		return result
	}
	defer cleanup()

	VerboseLog("Building %s from %s with the %s backend", req.Image, req.ContextDir, builder.Name())

	start := time.Now()
	result.Err = builder.Build(ctx, req)
	result.Duration = time.Since(start)
	return result
}

// warnIfPortBusy logs a warning when the hint's host port is taken.
func warnIfPortBusy(hint model.RunHint) {
	suggested, busy, err := hostPortScanner.Suggest(hint.HostPort)
	if !busy {
		return
	}
	if err != nil {
		logging.S().Warnf("host port %d is already in use", hint.HostPort)
		return
	}
	logging.S().Warnf("host port %d is already in use; consider -p %d:%d",
		hint.HostPort, suggested, hint.ContainerPort)
}
