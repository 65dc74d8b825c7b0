package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/distribution/reference"
)

// DefaultImage is the image reference produced by a default build.
const DefaultImage = "tarkov-weapon-optimizer:latest"

// ImageRef is a parsed and normalized container image reference.
//
// Repository holds the familiar (short) name as the user typed it, e.g.
// "tarkov-weapon-optimizer" rather than "docker.io/library/tarkov-weapon-optimizer",
// because that is what `docker images` and `docker run` display.
type ImageRef struct {
	// Repository is the familiar repository name without tag.
	Repository string `json:"repository"`

	// Tag is the image tag. Defaults to "latest" when omitted.
	Tag string `json:"tag"`
}

// ParseImageRef parses s as an image reference. A reference without a tag
// is given the "latest" tag. Digest references are rejected, since a build
// can only produce a tagged image.
func ParseImageRef(s string) (ImageRef, error) {
	if strings.TrimSpace(s) == "" {
		return ImageRef{}, fmt.Errorf("image reference must not be empty")
	}

	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return ImageRef{}, fmt.Errorf("invalid image reference %q: %w", s, err)
	}
	if _, ok := named.(reference.Digested); ok {
		return ImageRef{}, fmt.Errorf("invalid image reference %q: digests cannot be used as build tags", s)
	}

	// TagNameOnly adds ":latest" when no tag is present.
	named = reference.TagNameOnly(named)
	tagged, ok := named.(reference.Tagged)
	if !ok {
		return ImageRef{}, fmt.Errorf("invalid image reference %q: missing tag", s)
	}

	return ImageRef{
		Repository: reference.FamiliarName(named),
		Tag:        tagged.Tag(),
	}, nil
}

// String renders the reference as "repository:tag".
func (r ImageRef) String() string {
	if r.Tag == "" {
		return r.Repository + ":latest"
	}
	return r.Repository + ":" + r.Tag
}

// BuildRequest describes a single image build.
type BuildRequest struct {
	// Image is the tag applied to the built image.
	Image ImageRef

	// ContextDir is the build context directory. "." means the current
	// working directory, which is passed to the build tool verbatim.
	ContextDir string

	// Dockerfile is the build-definition file relative to ContextDir.
	// Empty means the build tool's default ("Dockerfile").
	Dockerfile string

	// BuildArgs are passed as --build-arg KEY=VALUE.
	BuildArgs map[string]string

	// Labels are attached to the resulting image where the backend supports it.
	Labels map[string]string
}

// BuildResult records the outcome of a build attempt.
type BuildResult struct {
	Image    ImageRef      `json:"image"`
	Backend  string        `json:"backend"`
	Duration time.Duration `json:"duration"`

	// Err is the build error. It is nil when the build succeeded.
	Err error `json:"-"`
}

// Succeeded reports whether the build finished without error.
func (r *BuildResult) Succeeded() bool {
	return r.Err == nil
}

// RunHint holds what is needed to render the suggested `docker run` command
// that is printed after a build.
type RunHint struct {
	HostPort      int      `json:"hostPort"`
	ContainerPort int      `json:"containerPort"`
	ContainerName string   `json:"containerName"`
	Image         ImageRef `json:"image"`
}

// Command renders the hint as a copy-pasteable command line, e.g.
//
//	docker run -d -p 8501:8501 --name tarkov-optimizer tarkov-weapon-optimizer:latest
func (h RunHint) Command() string {
	return fmt.Sprintf("docker run -d -p %d:%d --name %s %s",
		h.HostPort, h.ContainerPort, h.ContainerName, h.Image.String())
}

// BuildMeta is the provenance recorded on images built through the
// Engine API. It is stored as image labels and read back when listing.
type BuildMeta struct {
	// BuildID uniquely identifies one build invocation.
	BuildID string `json:"buildId"`

	// BuiltAt is when the build was started.
	BuiltAt time.Time `json:"builtAt"`

	// SourceDir is the absolute path of the build context.
	SourceDir string `json:"sourceDir"`

	// Revision is the Git commit of the build context, suffixed with
	// "-dirty" for modified trees. Empty outside a repository.
	Revision string `json:"revision,omitempty"`
}

// ImageInfo is a local image as reported by the Docker daemon.
type ImageInfo struct {
	ID      string            `json:"id"`
	Tags    []string          `json:"tags"`
	Size    int64             `json:"size"`
	Created time.Time         `json:"created"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// ShortID returns the first 12 hex characters of the image ID, without
// the "sha256:" prefix, as `docker images` displays it.
func (i ImageInfo) ShortID() string {
	id := strings.TrimPrefix(i.ID, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigInvalid indicates the configuration file or flags are invalid.
	ExitConfigInvalid ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitBuildFailed indicates the image build failed in strict mode.
	ExitBuildFailed ExitCode = 4

	// ExitInterrupted indicates the build was cancelled by a signal.
	// It matches the shell convention 128+SIGINT.
	ExitInterrupted ExitCode = 130
)

// CLIError is an error that carries the exit code the process should
// terminate with.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
