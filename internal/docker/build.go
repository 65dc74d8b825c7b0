package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// Builder builds a container image from a build request.
type Builder interface {
	// Build runs the build and blocks until it finishes. The returned error
	// is the build tool's failure, if any.
	Build(ctx context.Context, req model.BuildRequest) error

	// Name identifies the backend ("cli" or "api").
	Name() string
}

// CommandRunner runs an external program. It exists so the CLI backend can
// be exercised without a docker binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// ExecRunner runs programs with os/exec in the current working directory.
type ExecRunner struct{}

// Run starts name with args and waits for it. Output is streamed, not
// buffered, so long builds show progress as it happens.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// CLIBuilder builds images by invoking `docker build`. With a default
// request the invocation is exactly:
//
//	docker build -t tarkov-weapon-optimizer:latest .
//
// The build tool's own output is passed through unchanged.
type CLIBuilder struct {
	runner CommandRunner
	binary string
	stdout io.Writer
	stderr io.Writer
}

// NewCLIBuilder creates a CLIBuilder that runs binary (normally "docker")
// through runner. A nil runner means ExecRunner.
func NewCLIBuilder(runner CommandRunner, binary string, stdout, stderr io.Writer) *CLIBuilder {
	if runner == nil {
		runner = ExecRunner{}
	}
	if binary == "" {
		binary = "docker"
	}
	return &CLIBuilder{runner: runner, binary: binary, stdout: stdout, stderr: stderr}
}

// Name returns "cli".
func (b *CLIBuilder) Name() string { return "cli" }

// Build runs the build tool and returns its error unchanged.
func (b *CLIBuilder) Build(ctx context.Context, req model.BuildRequest) error {
	args := BuildArgs(req)
	if err := b.runner.Run(ctx, b.binary, args, b.stdout, b.stderr); err != nil {
		return fmt.Errorf("%s %v: %w", b.binary, args, err)
	}
	return nil
}

// BuildArgs returns the argument list for `docker build`. Optional flags
// appear only when the request sets them, and the context directory is
// always last.
func BuildArgs(req model.BuildRequest) []string {
	contextDir := req.ContextDir
	if contextDir == "" {
		contextDir = "."
	}

	args := []string{"build", "-t", req.Image.String()}

	if req.Dockerfile != "" {
		// -f is resolved against the working directory by the docker CLI,
		// while the request holds it relative to the context.
		args = append(args, "-f", filepath.Join(contextDir, req.Dockerfile))
	}
	for _, pair := range sortedPairs(req.BuildArgs) {
		args = append(args, "--build-arg", pair)
	}
	for _, pair := range sortedPairs(req.Labels) {
		args = append(args, "--label", pair)
	}

	return append(args, contextDir)
}
